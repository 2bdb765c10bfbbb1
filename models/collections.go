package models

// RemotePathPrefix is the root under which every collection lives in the
// shared remote store.
const RemotePathPrefix = "churchData/"

// RefreshAllTopic is the broadcast topic meaning "re-read every collection".
const RefreshAllTopic = "*"

// Collection describes one of the fixed, known-in-advance collections.
type Collection struct {
	// Name is the storage name used for cache keys, remote paths and
	// broadcast topics (e.g. "congs").
	Name string
	// ExportName is the in-memory name used as the key of a backup export
	// (e.g. "congregations").
	ExportName string
	// Default is the in-memory value before any cached or remote data
	// exists. It is never persisted on its own.
	Default Snapshot
}

// RemotePath returns the stable remote store path of the collection.
func (c Collection) RemotePath() string {
	return RemotePathPrefix + c.Name
}

// Collections is the registry of every collection the console manages, in
// display order.
var Collections = []Collection{
	{Name: "members", ExportName: "members"},
	{Name: "converts", ExportName: "newConverts"},
	{Name: "baptisms", ExportName: "baptisms"},
	{Name: "carousel", ExportName: "carouselItems"},
	{
		Name:       "congs",
		ExportName: "congregations",
		Default: MustParseSnapshot(`[
			{"id":"1","name":"Templo Sede","address":"Balsa Nova - PR","responsible":"Pr. Elias Israel Dias"}
		]`),
	},
	{Name: "deps", ExportName: "departments"},
	{Name: "events", ExportName: "events"},
	{Name: "media", ExportName: "mediaItems"},
	{
		Name:       "cults",
		ExportName: "weeklyCults",
		Default: MustParseSnapshot(`[
			{"id":"1","day":"Terça-feira","name":"Culto de Doutrina","time":"19:30"},
			{"id":"2","day":"Quinta-feira","name":"Culto de Vitória","time":"19:30"},
			{"id":"3","day":"Sábado","name":"Culto de Jovens","time":"19:30"},
			{"id":"4","day":"Domingo","name":"EBD","time":"09:00"},
			{"id":"5","day":"Domingo","name":"Culto de Louvor","time":"19:00"}
		]`),
	},
	{Name: "notices", ExportName: "notices"},
	{Name: "courses", ExportName: "courses"},
}

// LookupCollection finds a collection by its storage name.
func LookupCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// LookupExportName finds a collection by its export (camelCase) name.
func LookupExportName(exportName string) (Collection, bool) {
	for _, c := range Collections {
		if c.ExportName == exportName {
			return c, true
		}
	}
	return Collection{}, false
}

// CollectionNames returns the storage names of every collection.
func CollectionNames() []string {
	names := make([]string, 0, len(Collections))
	for _, c := range Collections {
		names = append(names, c.Name)
	}
	return names
}
