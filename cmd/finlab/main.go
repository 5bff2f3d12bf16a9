// finlab — fixed-income and investment analytics toolkit
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/finstudio/finlab/api"
	"github.com/finstudio/finlab/internal/analysis/fixedincome"
	"github.com/finstudio/finlab/internal/config"
	"github.com/finstudio/finlab/internal/marketdata"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finlab",
	Short: "finlab — bond pricing, risk, and portfolio analytics",
	Long: `finlab
A fixed-income analytics toolkit: bond pricing, yield approximations,
duration/convexity risk measures, rate-shock sensitivity, liability
immunization, and the live Treasury yield curve.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().Float64("face", 0, "face value (default from config)")
	rootCmd.PersistentFlags().Int("frequency", 0, "coupon payments per year (default from config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(ytmCmd)
	rootCmd.AddCommand(immunizeCmd)
	rootCmd.AddCommand(curveCmd)
	rootCmd.AddCommand(serveCmd)
}

// bondFromFlags assembles the bond shared by the calculator commands,
// filling face/frequency from config when the flags are unset.
func bondFromFlags(cmd *cobra.Command) (fixedincome.Bond, float64, error) {
	face, _ := cmd.Flags().GetFloat64("face")
	frequency, _ := cmd.Flags().GetInt("frequency")
	coupon, _ := cmd.Flags().GetFloat64("coupon")
	years, _ := cmd.Flags().GetFloat64("years")
	yield, _ := cmd.Flags().GetFloat64("yield")

	if face == 0 {
		face = cfg.Defaults.Face
	}
	if frequency == 0 {
		frequency = cfg.Defaults.Frequency
	}

	b := fixedincome.Bond{
		Face:       face,
		CouponRate: coupon,
		Years:      years,
		Frequency:  frequency,
	}
	return b, yield, b.Validate()
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finlab %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Price Command ---

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a bond at a given yield",
	Long: `Price a coupon bond by discounting its cash flows.

Examples:
  finlab price --coupon 0.06 --years 10 --yield 0.08
  finlab price --face 100 --coupon 0.05 --years 5 --frequency 1 --yield 0.04`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, yield, err := bondFromFlags(cmd)
		if err != nil {
			return err
		}

		price := b.Price(yield)
		fmt.Printf("💵 Bond Price\n")
		fmt.Printf("   Face:          %.2f\n", b.Face)
		fmt.Printf("   Coupon:        %.2f x %d/yr (rate %.2f%%)\n", b.Coupon(), b.Frequency, b.CouponRate*100)
		fmt.Printf("   Maturity:      %.2f years (%d periods)\n", b.Years, b.Periods())
		fmt.Printf("   Yield:         %.4f%%\n", yield*100)
		fmt.Printf("   Price:         %.4f\n", price)
		if cy := fixedincome.CurrentYield(b.CouponRate, b.Face, price); !math.IsNaN(cy) {
			fmt.Printf("   Current Yield: %.4f%%\n", cy*100)
		}
		return nil
	},
}

// --- Risk Command ---

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Duration and convexity of a bond",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, yield, err := bondFromFlags(cmd)
		if err != nil {
			return err
		}

		macaulay := b.Duration(yield)
		if math.IsNaN(macaulay) {
			return fmt.Errorf("duration undefined: bond has no remaining cash flows")
		}

		fmt.Printf("📐 Bond Risk Measures\n")
		fmt.Printf("   Price:              %.4f\n", b.Price(yield))
		fmt.Printf("   Macaulay Duration:  %.4f years\n", macaulay)
		fmt.Printf("   Modified Duration:  %.4f\n", fixedincome.ModifiedDuration(macaulay, yield, b.Frequency))
		fmt.Printf("   Convexity:          %.4f\n", b.Convexity(yield))
		return nil
	},
}

// --- Sensitivity Command ---

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Price change for a yield shock, approximations vs exact",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, yield, err := bondFromFlags(cmd)
		if err != nil {
			return err
		}
		shockBP, _ := cmd.Flags().GetFloat64("shock-bp")
		dy := shockBP / 10000

		sens := b.Sensitivity(yield, dy)
		fmt.Printf("⚡ Yield Shock %.0f bp\n", shockBP)
		fmt.Printf("   Modified Duration:    %.4f\n", sens.ModifiedDuration)
		fmt.Printf("   Convexity:            %.4f\n", sens.Convexity)
		fmt.Printf("   Duration approx:      %+.4f%%\n", sens.FirstOrder*100)
		fmt.Printf("   +Convexity approx:    %+.4f%%\n", sens.SecondOrder*100)
		fmt.Printf("   Actual repricing:     %+.4f%%\n", sens.Actual*100)
		return nil
	},
}

// --- YTM Command ---

var ytmCmd = &cobra.Command{
	Use:   "ytm",
	Short: "Approximate yield to maturity (and to call) from a price",
	RunE: func(cmd *cobra.Command, args []string) error {
		face, _ := cmd.Flags().GetFloat64("face")
		if face == 0 {
			face = cfg.Defaults.Face
		}
		price, _ := cmd.Flags().GetFloat64("price")
		coupon, _ := cmd.Flags().GetFloat64("coupon")
		years, _ := cmd.Flags().GetFloat64("years")
		callPrice, _ := cmd.Flags().GetFloat64("call-price")
		yearsToCall, _ := cmd.Flags().GetFloat64("years-to-call")

		if price <= 0 {
			return fmt.Errorf("--price must be positive")
		}

		fmt.Printf("🔎 Yield Approximations\n")
		if cy := fixedincome.CurrentYield(coupon, face, price); !math.IsNaN(cy) {
			fmt.Printf("   Current Yield: %.4f%%\n", cy*100)
		}
		if ytm := fixedincome.ApproxYTM(price, face, coupon, years); !math.IsNaN(ytm) {
			fmt.Printf("   Approx YTM:    %.4f%%\n", ytm*100)
		}
		if yearsToCall > 0 {
			if ytc := fixedincome.ApproxYTC(price, callPrice, face*coupon, yearsToCall); !math.IsNaN(ytc) {
				fmt.Printf("   Approx YTC:    %.4f%%\n", ytc*100)
			}
		}
		return nil
	},
}

// --- Immunize Command ---

var immunizeCmd = &cobra.Command{
	Use:   "immunize",
	Short: "Pick a bond maturity that immunizes a single liability",
	Long: `Scan maturities for the bond whose Macaulay duration matches the
liability horizon, then size the position to the liability's present value.

Example:
  finlab immunize --liability 10000 --horizon 5 --coupon 0.06 --yield 0.08`,
	RunE: func(cmd *cobra.Command, args []string) error {
		liability, _ := cmd.Flags().GetFloat64("liability")
		horizon, _ := cmd.Flags().GetFloat64("horizon")
		coupon, _ := cmd.Flags().GetFloat64("coupon")
		yield, _ := cmd.Flags().GetFloat64("yield")
		face, _ := cmd.Flags().GetFloat64("face")
		frequency, _ := cmd.Flags().GetInt("frequency")
		shockBP, _ := cmd.Flags().GetFloat64("shock-bp")

		in := fixedincome.ImmunizationInput{
			LiabilityAmount: liability,
			LiabilityYears:  horizon,
			CouponRate:      coupon,
			Yield:           yield,
			Face:            face,
			Frequency:       frequency,
			MaxExtension:    cfg.Defaults.MaxExtension,
			Samples:         cfg.Defaults.Samples,
		}
		plan, err := fixedincome.Immunize(in)
		if err != nil {
			return err
		}

		fmt.Printf("🛡️  Immunization Plan\n")
		fmt.Printf("   Liability:        %.2f due in %.2f years\n", liability, horizon)
		fmt.Printf("   Bond Maturity:    %.2f years (duration %.4f)\n", plan.Maturity, plan.Duration)
		fmt.Printf("   Bond Price:       %.4f\n", plan.BondPrice)
		fmt.Printf("   PV of Liability:  %.2f\n", plan.PVLiability)
		fmt.Printf("   Bonds to Buy:     %.4f\n", plan.BondCount)
		fmt.Printf("   Investment:       %.2f\n", plan.TotalInvestment)

		if shockBP != 0 {
			for _, dy := range []float64{shockBP / 10000, -shockBP / 10000} {
				shock := plan.ProjectShock(in, dy)
				fmt.Printf("\n   Shock %+.0f bp → yield %.4f%%\n", dy*10000, shock.NewYield*100)
				fmt.Printf("     Value at horizon: %.2f (coupons %.2f + bond %.2f)\n",
					shock.TotalValue, shock.CouponFV, shock.BondValueAtHorizon)
				fmt.Printf("     Shortfall:        %.2f (%.4f%%)\n", shock.Shortfall, shock.ShortfallPct)
			}
		}
		return nil
	},
}

// --- Curve Command ---

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Fetch the latest US Treasury par yield curve",
	RunE: func(cmd *cobra.Command, args []string) error {
		treasury := marketdata.NewTreasury(
			cfg.MarketData.FeedURL,
			cfg.MarketData.HTMLURL,
			time.Duration(cfg.MarketData.CacheTTL)*time.Second,
			cfg.MarketData.RatePerSec,
		)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.MarketData.TimeoutSec)*time.Second)
		defer cancel()

		curve, err := treasury.GetYieldCurve(ctx)
		if err != nil {
			return fmt.Errorf("fetch yield curve: %w", err)
		}

		fmt.Printf("🏛️  US Treasury Par Yield Curve — %s (%s)\n",
			curve.Date.Format("2006-01-02"), curve.Source)
		for _, p := range curve.Points {
			fmt.Printf("   %-6s %7.3f%%\n", p.Tenor, p.Yield*100)
		}

		if maturity, _ := cmd.Flags().GetFloat64("maturity"); maturity > 0 {
			y, ok := marketdata.InterpolateYield(curve, maturity)
			if !ok {
				return fmt.Errorf("curve has no points to interpolate")
			}
			fmt.Printf("\n   Interpolated @ %.2fy: %.3f%%\n", maturity, y*100)
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		api.Version = version
		srv := api.NewServer(cfg)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting finlab API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	for _, c := range []*cobra.Command{priceCmd, riskCmd, sensitivityCmd} {
		c.Flags().Float64("coupon", 0, "annual coupon rate as a decimal (0.06 = 6%)")
		c.Flags().Float64("years", 0, "years to maturity")
		c.Flags().Float64("yield", 0, "annual yield as a decimal")
	}
	sensitivityCmd.Flags().Float64("shock-bp", 100, "yield shock in basis points")

	ytmCmd.Flags().Float64("price", 0, "current market price")
	ytmCmd.Flags().Float64("coupon", 0, "annual coupon rate as a decimal")
	ytmCmd.Flags().Float64("years", 0, "years to maturity")
	ytmCmd.Flags().Float64("call-price", 0, "call price (for YTC)")
	ytmCmd.Flags().Float64("years-to-call", 0, "years until the call date (for YTC)")

	immunizeCmd.Flags().Float64("liability", 0, "liability amount due at the horizon")
	immunizeCmd.Flags().Float64("horizon", 0, "liability horizon in years")
	immunizeCmd.Flags().Float64("coupon", 0, "annual coupon rate as a decimal")
	immunizeCmd.Flags().Float64("yield", 0, "annual yield as a decimal")
	immunizeCmd.Flags().Float64("shock-bp", 0, "also project a ± yield shock in basis points")

	curveCmd.Flags().Float64("maturity", 0, "also interpolate the curve at this maturity in years")
}
