package broadcast

type nopChannel struct{}

// Nop returns a Channel that drops every announcement. It is used when
// broadcasting is disabled or the transport is unavailable.
func Nop() Channel {
	return nopChannel{}
}

func (nopChannel) Announce(string) {}

func (nopChannel) OnAnnounce(func(string)) func() { return func() {} }

func (nopChannel) Close() error { return nil }
