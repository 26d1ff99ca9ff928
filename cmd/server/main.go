// Server exposes the chatbot over HTTP: a chat endpoint, a health
// check, a stats endpoint and the static demo frontend.
package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/um5chat/campuschat"
	"github.com/um5chat/campuschat/core/router"
	"github.com/um5chat/campuschat/core/templates"
	"github.com/um5chat/campuschat/corpus"
	"github.com/um5chat/campuschat/model"
)

// chatRequest is the wire shape of a chat call.
type chatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

func main() {
	// Missing .env is fine, real envs may already be set.
	_ = godotenv.Load()

	config, err := model.RouterConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid router configuration: %v", err)
	}

	corp, err := corpus.Load(
		envOr("CAMPUSCHAT_CORPUS_PATH", "output/knowledge_base.json"),
		envOr("CAMPUSCHAT_VECTORS_PATH", "output/vector_database.json"),
	)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	bot, err := campuschat.New(corp, templates.DefaultTemplates(), config)
	if err != nil {
		log.Fatalf("failed to create chatbot: %v", err)
	}

	err = bot.UseDefaultModels(
		envOr("CAMPUSCHAT_INTENT_MODEL_PATH", "output/intent_model"),
		envOr("CAMPUSCHAT_LABELS_PATH", "output/intent_model/label_mappings.json"),
	)
	if err != nil {
		log.Fatalf("failed to load models: %v", err)
	}

	engine := gin.Default()
	engine.Use(cors.Default())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"model_loaded": bot.Ready(),
		})
	})

	engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, bot.Stats())
	})

	engine.POST("/api/chat", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		query := model.NewQuery(req.Message)
		if req.Language != "" {
			query.Language = req.Language
		}

		response, err := bot.Process(c.Request.Context(), query)
		if err != nil {
			if errors.Is(err, router.ErrEmptyQuery) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, response)
	})

	// Demo frontend, if bundled next to the binary.
	if _, err := os.Stat("static"); err == nil {
		engine.Static("/static", "./static")
		engine.GET("/", func(c *gin.Context) {
			c.File("static/index.html")
		})
	}

	port := envOr("PORT", "8000")
	log.Printf("campuschat listening on :%s", port)
	if err := engine.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
