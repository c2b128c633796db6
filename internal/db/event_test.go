package db_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"bingo-rooms/internal/db"
	"bingo-rooms/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestEventTypeHoldsPerVisitorNames(t *testing.T) {
	s, err := schema.Parse(&db.Event{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	typeField := s.LookUpField("Type")
	visitorField := s.LookUpField("VisitorID")
	require.NotNil(t, typeField)
	require.NotNil(t, visitorField)

	visitorID := strings.Repeat("v", visitorField.Size)
	for _, name := range []string{
		service.CardAssignedEvent(visitorID),
		service.CardUpdatedEvent(visitorID),
	} {
		assert.LessOrEqual(t, len(name), typeField.Size, name)
	}
}

func TestLatestMigrationMatchesEventTypeSize(t *testing.T) {
	s, err := schema.Parse(&db.Event{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join("..", "..", "db", "migrations", "20261016090000_widen_event_type.up.sql"))
	require.NoError(t, err)
	m := regexp.MustCompile(`(?i)column type TYPE VARCHAR\((\d+)\)`).FindSubmatch(raw)
	require.NotNil(t, m, "migration does not resize events.type")
	size, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	assert.Equal(t, s.LookUpField("Type").Size, size)
}
