package database

import (
	"time"
)

// Alias kinds stored in the kind column.
const (
	KindLiteral  = "literal"
	KindTemplate = "template"
)

// Alias is a persisted alias definition.
type Alias struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"` // literal, template
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Setting is a key/value row, used for stored affixes.
type Setting struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Setting keys.
const (
	SettingPrefix = "prefix"
	SettingSuffix = "suffix"
)
