package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/rcc-portal/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "rcc", Password: "pw", Name: "rcc_portal", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5433 user=rcc password=pw dbname=rcc_portal sslmode=disable", dsn)
}
