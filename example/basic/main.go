// Basic example running the routing pipeline with stub models, so it
// works without downloading anything. Real deployments load the hugot
// models through UseDefaultModels instead.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/um5chat/campuschat"
	"github.com/um5chat/campuschat/core/classifier"
	"github.com/um5chat/campuschat/core/templates"
	"github.com/um5chat/campuschat/corpus"
	"github.com/um5chat/campuschat/model"
)

var labels = []string{"inscription", "bourses", "emploi_du_temps", "bibliotheque"}

var entries = []*model.KnowledgeEntry{
	{Row: 0, Question: "Comment s'inscrire en licence ?", Answer: "L'inscription en licence se fait sur le portail www.um5.ac.ma entre juillet et septembre.", Intent: "inscription"},
	{Row: 1, Question: "Quand sont versées les bourses ?", Answer: "Les bourses sont versées chaque trimestre après validation du dossier.", Intent: "bourses"},
	{Row: 2, Question: "Où consulter l'emploi du temps ?", Answer: "L'emploi du temps est disponible sur le portail étudiant et dans l'application mobile.", Intent: "emploi_du_temps"},
	{Row: 3, Question: "Quels sont les horaires de la bibliothèque ?", Answer: "La bibliothèque est ouverte du lundi au vendredi de 8h à 18h et le samedi matin.", Intent: "bibliotheque"},
}

// matrix holds one hand-made unit vector per entry, spread on distinct
// axes so every query has an unambiguous nearest entry.
var matrix = [][]float32{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{0, 0, 0, 1},
}

// stubClassify assigns high confidence when a keyword matches, low
// confidence otherwise.
func stubClassify(text string) ([]float64, error) {
	probs := make([]float64, len(labels))
	lower := strings.ToLower(text)
	for i, keyword := range []string{"inscri", "bourse", "emploi", "biblio"} {
		if strings.Contains(lower, keyword) {
			probs[i] = 0.95
			return probs, nil
		}
	}
	for i := range probs {
		probs[i] = 1.0 / float64(len(probs))
	}
	return probs, nil
}

// stubEmbed points queries at the axis of the best matching entry.
func stubEmbed(text string) ([]float32, error) {
	lower := strings.ToLower(text)
	for i, keyword := range []string{"licence", "trimestre", "portail", "horaires"} {
		if strings.Contains(lower, keyword) {
			vector := make([]float32, 4)
			vector[i] = 1
			return vector, nil
		}
	}
	return []float32{0.5, 0.5, 0.5, 0.5}, nil
}

func main() {
	corp, err := corpus.New(entries, matrix)
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}

	bot, err := campuschat.New(corp, templates.DefaultTemplates(), model.DefaultRouterConfig())
	if err != nil {
		log.Fatalf("Failed to create chatbot: %v", err)
	}

	cls, err := classifier.NewClassifier(labels, stubClassify)
	if err != nil {
		log.Fatalf("Failed to create classifier: %v", err)
	}
	if err := bot.SetModels(cls, stubEmbed); err != nil {
		log.Fatalf("Failed to set models: %v", err)
	}

	queries := []string{
		"Comment faire mon inscription ?",            // confident classifier -> intent template
		"Quand reçoit-on le versement du trimestre ?", // unsure classifier, close match -> rag
		"Parlez-moi de la cafétéria",                  // unsure classifier, no match -> fallback
	}

	for _, text := range queries {
		response, err := bot.ProcessText(context.Background(), text)
		if err != nil {
			log.Fatalf("Failed to process query: %v", err)
		}
		fmt.Printf("\nQ: %s\n[%s, confidence %.2f, intent %s, %.2f ms]\n%s\n",
			text, response.Method, response.Confidence, response.Intent, response.LatencyMs, response.Answer)
	}
}
