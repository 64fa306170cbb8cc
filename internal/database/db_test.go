package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	p := Params{
		User: "booking", Pass: "hunter2",
		Host: "db.internal", Port: "3306", Name: "hospital",
	}
	got := dsn(p)
	assert.Equal(t,
		"booking:hunter2@tcp(db.internal:3306)/hospital?charset=utf8mb4&collation=utf8mb4_unicode_ci&parseTime=true&loc=UTC",
		got)
}

func TestDSNWithoutPassword(t *testing.T) {
	p := Params{User: "root", Host: "localhost", Port: "3306", Name: "hospital"}
	got := dsn(p)
	assert.Contains(t, got, "root@tcp(localhost:3306)/hospital")
	assert.NotContains(t, got, ":@")
}
