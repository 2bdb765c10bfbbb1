package client

import "errors"

var errAppNotConfigured = errors.New("client app needs an engine and a console")
