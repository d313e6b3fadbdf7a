package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Arthur-Developerr/tde-qualidade-de-software/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueConstraintColumn = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode returns the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return MapCode(pgErr.Code)
	}
	return Other
}

func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds codes like USER_ALREADY_EXISTS from the table
// name and the violation.
func generateErrorCode(tableName string, code Code) string {
	domain := strings.ToUpper(singular(tableName))
	if domain == "" {
		domain = "RECORD"
	}

	action := "ERROR"
	switch code {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidText:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entity := entityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entity)
	case UniqueViolation:
		field := humanizeText(extractColumnForUniqueViolation(sqlErr.ConstraintName))
		if field == "" {
			field = "identifier"
		}
		return fmt.Sprintf("A %s with this %s already exists", entity, field)
	case NotNullViolation:
		field := humanizeText(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		return fmt.Sprintf("The %s is required", field)
	case CheckViolation, InvalidText:
		if field := humanizeText(sqlErr.ColumnName); field != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

func singular(s string) string {
	if len(s) > 1 && (strings.HasSuffix(s, "s") || strings.HasSuffix(s, "S")) {
		return s[:len(s)-1]
	}
	return s
}

// entityName prefers a "<entity>_id" column over the table name.
func entityName(tableName, columnName string) string {
	if col := strings.ToLower(columnName); strings.HasSuffix(col, "_id") {
		return humanizeText(strings.TrimSuffix(col, "_id"))
	}
	if tableName != "" {
		return humanizeText(singular(tableName))
	}
	return "record"
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation understands "unique_<table>_<column>" and
// Postgres' default "<table>_<column>_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if m := uniqueConstraintColumn.FindStringSubmatch(constraintName); len(m) > 1 {
		return m[1]
	}

	return ""
}

// HandleError converts a database error into an *errs.HTTPError.
// Errors that already are *errs.HTTPError are returned unchanged.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		sqlErr := ConvertPgError(pgErr)
		code := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		message := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(message, false, &code, nil, nil)
		case UniqueViolation:
			return errs.NewConflictError(message, &code)
		case NotNullViolation:
			fieldErrors := []errs.FieldError{{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			}}
			return errs.NewBadRequestError(message, true, &code, fieldErrors, nil)
		case CheckViolation, InvalidText:
			return errs.NewBadRequestError(message, true, &code, nil, nil)
		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
