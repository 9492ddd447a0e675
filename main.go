package main

import (
	"net/http"
	"os"

	"echonotes/ai-backend/config"
	"echonotes/ai-backend/handlers"
	"echonotes/ai-backend/middleware"
	"echonotes/ai-backend/routes"
	"echonotes/ai-backend/supabase"
)

func main() {
	config.LoadEnv()
	config.InitLogger()
	supabase.Init()

	if err := handlers.Init(); err != nil {
		config.Logger.Fatal("Failed to initialise AI client: ", err)
	}

	mux := http.NewServeMux()
	routes.RegisterAllRoutes(mux)

	handler := middleware.Chain(
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	config.Logger.Info("Server is running on port ", port)
	config.Logger.Fatal(http.ListenAndServe(":"+port, handler))
}
