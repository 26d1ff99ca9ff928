package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed entries.sql
var entriesSQL string

// EntriesFunctions lists the SQL functions required by the entries
// handler, used for verification after loading.
var EntriesFunctions = []string{
	"init_entries",
	"insert_entry",
	"select_all_entries",
	"select_entries_by_similarity",
	"count_entries",
	"delete_all_entries",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadEntriesSql loads entry-related SQL functions
func LoadEntriesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, EntriesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing entries functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(entriesSQL)
	if err != nil {
		return fmt.Errorf("error executing entries SQL: %w", err)
	}

	exist, err := checkFunctions(db, EntriesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL entries functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
