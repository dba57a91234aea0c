package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/suptia/backend/config"
	"github.com/suptia/backend/internal/domain"
	"github.com/suptia/backend/internal/infrastructure/cache"
	"github.com/suptia/backend/internal/infrastructure/marketplace"
	"github.com/suptia/backend/internal/infrastructure/store"
	"github.com/suptia/backend/internal/usecase"
)

var version = "dev"

var (
	verbose     bool
	fix         bool
	concurrency int
	delay       time.Duration

	cfg     *config.Config
	service *usecase.ProductService
	storeDB *store.Client
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "suptiactl",
	Short:   "Batch maintenance for the Suptia product catalog",
	Long:    "suptiactl runs the ingredient validator, score aggregator, and price calculator across the full product dataset. All commands are dry-run by default; pass --fix to write corrections back to the content store.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if !cmd.Flags().Changed("concurrency") {
			concurrency = cfg.Batch.Concurrency
		}
		if !cmd.Flags().Changed("delay") {
			delay = cfg.Batch.Delay
		}
		if concurrency < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", concurrency)
		}

		storeDB = store.NewClient(cfg.Store.BaseURL, cfg.Store.Dataset, cfg.Store.Token)
		marketClient := marketplace.NewClient(sourceEndpoints(cfg.Marketplace.Endpoints), cfg.Marketplace.APIKey)
		if verbose {
			storeDB.SetDebug(true)
			marketClient.SetDebug(true)
		}

		service = usecase.NewProductService(
			storeDB,
			marketClient,
			cache.NewMemoryCache(),
			usecase.ProductServiceConfig{
				CacheTTL:           cfg.Cache.TTL,
				EnableDebugLogging: verbose,
			},
		)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&fix, "fix", false, "Write corrections back to the content store")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "Products processed in flight (default from config)")
	rootCmd.PersistentFlags().DurationVar(&delay, "delay", 0, "Courtesy delay between product dispatches (default from config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(brandsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(pricesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("suptiactl", version)
	},
}

// productReport is one product's outcome in a batch run, printed in catalog
// order regardless of which worker finished first.
type productReport struct {
	index int
	id    string
	name  string
	lines []string
	err   error
}

// forEachProduct runs fn over every product in the dataset with at most
// `concurrency` in flight, sleeping `delay` between dispatches so the
// content store is never hammered. Reports come back sorted by catalog
// position.
func forEachProduct(ctx context.Context, fn func(ctx context.Context, p domain.Product) ([]string, error)) ([]productReport, error) {
	products, err := storeDB.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	var mu sync.Mutex
	reports := make([]productReport, 0, len(products))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range products {
		i, p := i, products[i]
		g.Go(func() error {
			lines, err := fn(ctx, p)
			mu.Lock()
			reports = append(reports, productReport{index: i, id: p.ID, name: p.Name, lines: lines, err: err})
			mu.Unlock()
			return nil
		})
		if delay > 0 && i < len(products)-1 {
			time.Sleep(delay)
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(a, b int) bool { return reports[a].index < reports[b].index })
	return reports, nil
}

// printReports writes the per-product findings and returns counts for the
// closing summary.
func printReports(reports []productReport) (flagged, failed int) {
	for _, r := range reports {
		if r.err != nil {
			failed++
			fmt.Printf("  %s: ERROR: %v\n", r.id, r.err)
			continue
		}
		if len(r.lines) == 0 {
			continue
		}
		flagged++
		fmt.Printf("  %s (%s)\n", r.id, r.name)
		for _, line := range r.lines {
			fmt.Printf("    - %s\n", line)
		}
	}
	return flagged, failed
}

func modeLabel() string {
	if fix {
		return "fix"
	}
	return "dry-run"
}

// --- validate command ---

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate ingredient amounts across the dataset",
	Long:  "Runs the unit/magnitude validator over every product's ingredient list. With --fix, corrected amounts are patched back to the content store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		fmt.Printf("Validating ingredient amounts (%s, concurrency %d)...\n\n", modeLabel(), concurrency)

		var fixedTotal int64
		var mu sync.Mutex

		reports, err := forEachProduct(ctx, func(ctx context.Context, p domain.Product) ([]string, error) {
			result, err := service.ValidateProduct(ctx, p.ID, fix)
			if err != nil {
				return nil, err
			}
			if fix && amountsChanged(p.Ingredients, result.Ingredients) {
				mu.Lock()
				fixedTotal++
				mu.Unlock()
			}
			return result.Warnings, nil
		})
		if err != nil {
			return err
		}

		flagged, failed := printReports(reports)
		fmt.Printf("\nValidation complete:\n")
		fmt.Printf("  Products checked: %d\n", len(reports))
		fmt.Printf("  With warnings: %d\n", flagged)
		fmt.Printf("  Errors: %d\n", failed)
		if fix {
			fmt.Printf("  Corrections written: %d\n", fixedTotal)
		} else if flagged > 0 {
			fmt.Println("\nDry run - re-run with --fix to persist corrections.")
		}
		return nil
	},
}

// --- brands command ---

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Derive missing brand names from product titles",
	Long:  "Extracts a brand candidate from each product name and reports products whose stored brand is missing or differs. With --fix, missing brands are patched back to the content store; existing brands are never overwritten.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		fmt.Printf("Extracting brands (%s, concurrency %d)...\n\n", modeLabel(), concurrency)

		reports, err := forEachProduct(ctx, func(ctx context.Context, p domain.Product) ([]string, error) {
			extracted := usecase.ExtractBrandFromProductName(p.Name)
			switch {
			case extracted == "" && p.Brand == "":
				return []string{"no brand candidate found in product name"}, nil
			case extracted == "" || extracted == p.Brand:
				return nil, nil
			case p.Brand != "":
				return []string{fmt.Sprintf("stored brand %q differs from extracted %q (not changed)", p.Brand, extracted)}, nil
			}

			if fix {
				if err := storeDB.PatchProduct(ctx, p.ID, map[string]interface{}{"brand": extracted}); err != nil {
					return nil, fmt.Errorf("patching brand: %w", err)
				}
				return []string{fmt.Sprintf("brand set to %q", extracted)}, nil
			}
			return []string{fmt.Sprintf("would set brand to %q", extracted)}, nil
		})
		if err != nil {
			return err
		}

		flagged, failed := printReports(reports)
		fmt.Printf("\nBrand extraction complete:\n")
		fmt.Printf("  Products checked: %d\n", len(reports))
		fmt.Printf("  Flagged: %d\n", flagged)
		fmt.Printf("  Errors: %d\n", failed)
		if !fix && flagged > 0 {
			fmt.Println("\nDry run - re-run with --fix to persist missing brands.")
		}
		return nil
	},
}

// --- scores command ---

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Recompute evidence/safety scores across the dataset",
	Long:  "Aggregates dosage-weighted evidence and safety scores for every product. Products without usable dosage data are reported, not scored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		fmt.Printf("Scoring products (concurrency %d)...\n\n", concurrency)

		tierCounts := make(map[domain.Grade]int)
		var insufficient int64
		var mu sync.Mutex

		reports, err := forEachProduct(ctx, func(ctx context.Context, p domain.Product) ([]string, error) {
			score, err := usecase.ScoreProduct(&p)
			if errors.Is(err, domain.ErrInsufficientData) {
				mu.Lock()
				insufficient++
				mu.Unlock()
				return []string{"insufficient dosage data - no score"}, nil
			}
			if err != nil {
				return nil, err
			}
			mu.Lock()
			tierCounts[score.Tier]++
			mu.Unlock()
			if verbose {
				return []string{fmt.Sprintf("evidence %.1f / safety %.1f / overall %d (tier %s)",
					score.EvidenceScore, score.SafetyScore, score.Overall, score.Tier)}, nil
			}
			return nil, nil
		})
		if err != nil {
			return err
		}

		_, failed := printReports(reports)
		fmt.Printf("\nScoring complete:\n")
		fmt.Printf("  Products checked: %d\n", len(reports))
		for _, tier := range []domain.Grade{domain.GradeS, domain.GradeA, domain.GradeB, domain.GradeC, domain.GradeD} {
			if n := tierCounts[tier]; n > 0 {
				fmt.Printf("  Tier %s: %d\n", tier, n)
			}
		}
		fmt.Printf("  Insufficient data: %d\n", insufficient)
		fmt.Printf("  Errors: %d\n", failed)
		return nil
	},
}

// --- prices command ---

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Audit effective prices across the dataset",
	Long:  "Computes the effective price (base + shipping - points) for every listing and reports the cheapest source and cost per day for each product. Products without listings are flagged.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		fmt.Printf("Auditing effective prices (concurrency %d)...\n\n", concurrency)

		var noListings int64
		var mu sync.Mutex

		reports, err := forEachProduct(ctx, func(ctx context.Context, p domain.Product) ([]string, error) {
			if len(p.PriceListings) == 0 {
				mu.Lock()
				noListings++
				mu.Unlock()
				return []string{"no price listings"}, nil
			}

			var lines []string
			bestSource := p.PriceListings[0].Source
			best := usecase.EffectivePriceForListing(p.PriceListings[0]).EffectivePrice
			for _, listing := range p.PriceListings[1:] {
				if eff := usecase.EffectivePriceForListing(listing).EffectivePrice; eff < best {
					best, bestSource = eff, listing.Source
				}
			}
			lines = append(lines, fmt.Sprintf("cheapest: %s at %.0f yen effective", bestSource, best))

			if costPerDay, err := usecase.CostPerDay(&p); err == nil {
				lines = append(lines, fmt.Sprintf("cost per day: %.1f yen", costPerDay))
			}
			return lines, nil
		})
		if err != nil {
			return err
		}

		_, failed := printReports(reports)
		fmt.Printf("\nPrice audit complete:\n")
		fmt.Printf("  Products checked: %d\n", len(reports))
		fmt.Printf("  Without listings: %d\n", noListings)
		fmt.Printf("  Errors: %d\n", failed)
		return nil
	},
}

// amountsChanged reports whether validation altered any ingredient amount.
func amountsChanged(before, after []domain.ProductIngredientAmount) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i].AmountMgPerServing != after[i].AmountMgPerServing {
			return true
		}
	}
	return false
}

// sourceEndpoints converts the string-keyed config map into typed sources
func sourceEndpoints(endpoints map[string]string) map[domain.Source]string {
	typed := make(map[domain.Source]string, len(endpoints))
	for k, v := range endpoints {
		if v != "" {
			typed[domain.Source(k)] = v
		}
	}
	return typed
}
