package dbclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"gridedit/internal/domain"
)

func TestBuildMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://localhost:27017",
		buildMongoURI(&domain.DatabaseConnection{}, ""))
	assert.Equal(t, "mongodb://app:secret@db:27018",
		buildMongoURI(&domain.DatabaseConnection{Host: "db", Port: 27018, Username: "app"}, "secret"))
	assert.Equal(t, "mongodb://db:27017/?authSource=admin",
		buildMongoURI(&domain.DatabaseConnection{Host: "db", ExtraJSON: `{"authSource":"admin"}`}, ""))
	assert.Equal(t, "mongodb+srv://u:pw@cluster/app",
		buildMongoURI(&domain.DatabaseConnection{Host: "mongodb+srv://u:<password>@cluster/app"}, "pw"))
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "app", databaseFromURI("mongodb+srv://u:pw@cluster.example.net/app?retryWrites=true"))
	assert.Equal(t, "test", databaseFromURI("mongodb://localhost:27017"))
	assert.Equal(t, "test", databaseFromURI("mongodb://db:27017/?authSource=admin"))
}

func TestPlainValue(t *testing.T) {
	when := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	got := plainValue(bson.D{
		{Key: "name", Value: "x"},
		{Key: "profile", Value: bson.D{{Key: "tags", Value: bson.A{"a", bson.M{"k": 1}}}}},
		{Key: "at", Value: bson.NewDateTimeFromTime(when)},
	})

	assert.Equal(t, map[string]any{
		"name":    "x",
		"profile": map[string]any{"tags": []any{"a", map[string]any{"k": 1}}},
		"at":      when,
	}, got)
}
