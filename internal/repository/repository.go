// Package repository holds the SQL behind each service. Repositories return
// driver errors untouched; the service layer decides what they mean to a
// client.
package repository
