// prs313web serves PRS313 scoring over HTTP. Models, allele frequencies and
// weights are loaded once at startup; each upload is scored against them and
// optionally saved.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/carbocation/prs313"
	"github.com/carbocation/prs313/compileinfo"
	"github.com/carbocation/prs313/pipeline"
	"github.com/carbocation/prs313/prsparser"
	"github.com/carbocation/prs313/resultstore"
	"github.com/joho/godotenv"
)

func main() {
	// Settings may come from a .env file; a missing file is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Could not read .env:", err)
	}

	cfg := pipeline.DefaultConfig()

	var (
		port      int
		storePath string
		maxTrials int
		maxUpload int64
	)
	flag.IntVar(&port, "port", envInt("PRS313_PORT", 9019), "Port for HTTP server")
	flag.StringVar(&cfg.ReferencePath, "reference", os.Getenv("PRS313_REFERENCE"), "Path to the reference panel table (local, http(s) or gs://)")
	flag.StringVar(&cfg.WeightsPath, "weights", os.Getenv("PRS313_WEIGHTS"), "Path to the effect weight table")
	flag.StringVar(&cfg.Layout, "layout", envString("PRS313_LAYOUT", cfg.Layout), fmt.Sprint("Layout of the effect weight table. Currently, options include: ", prsparser.LayoutNames()))
	flag.StringVar(&cfg.FrequencyTemplate, "frequency-template", os.Getenv("PRS313_FREQUENCY_TEMPLATE"), "Templated path to the allele frequency tables with "+prs313.ChromosomeToken+" in place of the chromosome number")
	flag.StringVar(&cfg.ModelTemplate, "model-template", os.Getenv("PRS313_MODEL_TEMPLATE"), "Templated path to the imputation models with "+prs313.ChromosomeToken+" in place of the chromosome number")
	flag.IntVar(&cfg.Trials, "trials", envInt("PRS313_TRIALS", cfg.Trials), "Default number of Monte Carlo trials")
	flag.IntVar(&maxTrials, "max-trials", envInt("PRS313_MAX_TRIALS", 1000), "Largest number of trials a request may ask for")
	flag.Int64Var(&maxUpload, "max-upload", int64(envInt("PRS313_MAX_UPLOAD", 64<<20)), "Largest genotype upload accepted, in bytes")
	flag.StringVar(&storePath, "store", os.Getenv("PRS313_STORE"), "Optional: path to a SQLite database in which to save runs")
	flag.Parse()

	if cfg.ReferencePath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide --reference")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	logger := log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime)
	logger.Println(compileinfo.Get())

	ctx := context.Background()

	sclient, err := storage.NewClient(ctx)
	if err != nil {
		logger.Println("No Google Storage client; gs:// paths will fail:", err)
		sclient = nil
	}

	resources, err := pipeline.LoadResources(ctx, cfg, sclient, logger)
	if err != nil {
		log.Fatalln(err)
	}

	global := &Global{
		log:       logger,
		resources: resources,
		Config:    cfg,
		MaxTrials: maxTrials,
		MaxUpload: maxUpload,
	}

	if storePath != "" {
		store, err := resultstore.Open(storePath)
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()
		global.store = store
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(`:%d`, port),
		Handler:           router(global),
		ReadHeaderTimeout: 30 * time.Second,
	}

	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Println("Starting HTTP server on port", port)
		errors <- srv.ListenAndServe()
	}()

	select {
	case sigl := <-sig:
		logger.Printf("Exit: %s\n", sigl.String())
		shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			logger.Println(err)
		}
	case err := <-errors:
		if err != nil && err != http.ErrServerClosed {
			logger.Println("Exiting due to error", err)
			os.Exit(1)
		}
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring %s=%q: not an integer\n", key, v)
		return fallback
	}
	return i
}
