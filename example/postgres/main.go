// Postgres example: imports a small corpus into a pgvector-backed
// store, reloads it, and runs a server-side similarity query. Starts a
// throwaway Postgres container, so Docker must be available.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/um5chat/campuschat/corpus"
	"github.com/um5chat/campuschat/database"
	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
	loadSql "github.com/um5chat/campuschat/sql"
)

var entries = []*model.KnowledgeEntry{
	{Row: 0, Question: "Comment s'inscrire ?", Answer: "Via le portail www.um5.ac.ma.", Intent: "inscription"},
	{Row: 1, Question: "Quand candidater aux bourses ?", Answer: "Entre septembre et octobre.", Intent: "bourses"},
	{Row: 2, Question: "Horaires de la bibliothèque ?", Answer: "Du lundi au vendredi, 8h à 18h.", Intent: "bibliotheque"},
}

var matrix = [][]float32{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	db := helper.NewTestDatabase(dbConfig)
	defer db.Instance.Close()

	if err := loadSql.Init(db.Instance); err != nil {
		log.Fatalf("Failed to initialize database extensions: %v", err)
	}

	handler, err := database.NewEntriesDBHandler(db, len(matrix[0]), false)
	if err != nil {
		log.Fatalf("Failed to create entries handler: %v", err)
	}

	corp, err := corpus.New(entries, matrix)
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}

	fmt.Println("Importing corpus...")
	if err := handler.ImportCorpus(corp); err != nil {
		log.Fatalf("Failed to import corpus: %v", err)
	}

	reloaded, err := handler.LoadCorpus()
	if err != nil {
		log.Fatalf("Failed to reload corpus: %v", err)
	}
	fmt.Printf("Reloaded %d entries (dimension %d)\n", reloaded.Size(), reloaded.Dimension())

	// Query close to the bourses axis.
	docs, err := handler.SelectEntriesBySimilarity([]float32{0.1, 0.9, 0.1}, 2)
	if err != nil {
		log.Fatalf("Failed to query by similarity: %v", err)
	}

	fmt.Println("\nServer-side similarity search:")
	for _, doc := range docs {
		fmt.Printf("  %.3f  [%s] %s\n", doc.Similarity, doc.Intent, doc.Question)
	}
}
