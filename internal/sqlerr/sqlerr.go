// Package sqlerr turns Postgres driver errors into client-facing errors.
//
// Raw *pgconn.PgError values are first normalized into *Error (SQLSTATE
// mapped to a small Code enum) and HandleError then picks the status and
// message: constraint violations become 400s, missing rows 404s and
// everything else an opaque 500.
package sqlerr

import (
	"fmt"

	"github.com/jackc/pgerrcode"
)

// Code is the coarse category of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	InvalidText         Code = "invalid_text_representation"
)

type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized Postgres error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case pgerrcode.NotNullViolation:
		return NotNullViolation
	case pgerrcode.ForeignKeyViolation:
		return ForeignKeyViolation
	case pgerrcode.UniqueViolation:
		return UniqueViolation
	case pgerrcode.CheckViolation:
		return CheckViolation
	case pgerrcode.ExclusionViolation:
		return ExclusionViolation
	case pgerrcode.InvalidTextRepresentation:
		return InvalidText
	default:
		return Other
	}
}

func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
