// Package main provides the regrid API HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.ngs.io/regrid-api/internal/adapter/store"
	"go.ngs.io/regrid-api/internal/adapter/store/csv"
	ncstore "go.ngs.io/regrid-api/internal/adapter/store/netcdf"
	httpHandler "go.ngs.io/regrid-api/internal/http"
	"go.ngs.io/regrid-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("regrid-api version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	dataDir := getEnv("DATA_DIR", "./data")
	tripleDir := getEnv("TRIPLE_DIR", dataDir)

	log.Printf("Starting Regrid API server...")
	log.Printf("Port: %s", port)
	log.Printf("Data directory: %s", dataDir)

	// Register every NetCDF file under the data directory as a dataset
	// named after its base name.
	fields := make(map[string]store.FieldLoader)
	matches, err := filepath.Glob(filepath.Join(dataDir, "*.nc"))
	if err != nil {
		log.Fatalf("Failed to scan data directory: %v", err)
	}
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".nc")
		fields[name] = ncstore.NewDataset(path)
		log.Printf("Registered dataset %q: %s", name, path)
	}
	if len(fields) == 0 {
		log.Printf("Warning: no NetCDF datasets found in %s", dataDir)
	}

	tripleStore := csv.NewTripleStore(tripleDir)

	// Initialize use case.
	regridUC := usecase.NewRegridUseCase(fields, tripleStore)

	// Setup router.
	router := httpHandler.SetupRouter(regridUC)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET  /v1/datasets")
	log.Printf("  - GET  /v1/datasets/:name/variables")
	log.Printf("  - POST /v1/regrid")
	log.Printf("  - POST /v1/triples/grid")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Regrid API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  regrid-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  DATA_DIR                NetCDF data directory (default: ./data)")
	fmt.Println("  TRIPLE_DIR              CSV triple directory (default: DATA_DIR)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  regrid-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port")
	fmt.Println("  PORT=3000 regrid-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET  /health                         Health check")
	fmt.Println("  GET  /v1/datasets                    List registered datasets")
	fmt.Println("  GET  /v1/datasets/:name/variables    List regriddable variables")
	fmt.Println("  POST /v1/regrid                      Regrid a variable")
	fmt.Println("  POST /v1/triples/grid                Bin scattered samples onto a grid")
	fmt.Println()
}
