package domain

// DatabaseDriver represents the type of document store backing the editor.
type DatabaseDriver string

const (
	DatabaseDriverMongoDB DatabaseDriver = "mongodb"
	DatabaseDriverMemory  DatabaseDriver = "memory"
)

// DatabaseConnection holds the metadata for connecting to the document store.
type DatabaseConnection struct {
	Driver   DatabaseDriver `json:"driver"`
	Host     string         `json:"host"` // hostname or full mongodb:// / mongodb+srv:// URI
	Port     int            `json:"port"`
	Database string         `json:"database"`
	Username string         `json:"username"`
	// ExtraJSON carries driver options such as authSource or replicaSet.
	ExtraJSON string `json:"extraJson"`
}
