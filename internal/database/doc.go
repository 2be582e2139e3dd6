// Package database provides the Postgres connection pool for the recorder.
package database
