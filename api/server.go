// Package api provides the HTTP REST API server for finlab.
//
// It exposes the bond calculators (pricing, risk, sensitivity,
// immunization), the supplemental equity/ratio/options/performance/fee
// calculators, the live Treasury yield curve, and WebSocket streaming
// recalculation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/finstudio/finlab/internal/analysis/equity"
	"github.com/finstudio/finlab/internal/analysis/fixedincome"
	"github.com/finstudio/finlab/internal/analysis/hedgefund"
	"github.com/finstudio/finlab/internal/analysis/options"
	"github.com/finstudio/finlab/internal/analysis/performance"
	"github.com/finstudio/finlab/internal/analysis/ratios"
	"github.com/finstudio/finlab/internal/config"
	"github.com/finstudio/finlab/internal/marketdata"
)

// Version is stamped by the CLI at startup.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	treasury *marketdata.Treasury
	wsHub    *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) *Server {
	srv := &Server{
		cfg: cfg,
		treasury: marketdata.NewTreasury(
			cfg.MarketData.FeedURL,
			cfg.MarketData.HTMLURL,
			time.Duration(cfg.MarketData.CacheTTL)*time.Second,
			cfg.MarketData.RatePerSec,
		),
		wsHub: NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Bond calculators
		r.Post("/bond/price", s.handleBondPrice)
		r.Post("/bond/risk", s.handleBondRisk)
		r.Post("/bond/sensitivity", s.handleBondSensitivity)
		r.Post("/bond/immunize", s.handleImmunize)
		r.Get("/bond/curve", s.handleBondCurve)
		r.Post("/yield/approx", s.handleYieldApprox)

		// Supplemental calculators
		r.Post("/equity/ddm", s.handleEquityDDM)
		r.Post("/ratios/dupont", s.handleDuPont)
		r.Post("/options/payoff", s.handleOptionsPayoff)
		r.Post("/performance/metrics", s.handlePerformanceMetrics)
		r.Post("/hedgefund/fees", s.handleHedgeFundFees)

		// Market data
		r.Get("/market/yieldcurve", s.handleMarketYieldCurve)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// BondRequest describes a bond plus the yield to evaluate it at.
// Face and frequency fall back to the configured defaults when zero.
type BondRequest struct {
	Face       float64 `json:"face,omitempty"`
	CouponRate float64 `json:"coupon_rate"`
	Years      float64 `json:"years"`
	Frequency  int     `json:"frequency,omitempty"`
	Yield      float64 `json:"yield"`
}

// PriceResponse is the body for POST /api/v1/bond/price.
type PriceResponse struct {
	Price        float64  `json:"price"`
	Coupon       float64  `json:"coupon"`
	Periods      int      `json:"periods"`
	CurrentYield *float64 `json:"current_yield,omitempty"`
}

// RiskResponse is the body for POST /api/v1/bond/risk. Metrics that are
// undefined for the input (a matured bond, say) are omitted.
type RiskResponse struct {
	Price            float64  `json:"price"`
	MacaulayDuration *float64 `json:"macaulay_duration,omitempty"`
	ModifiedDuration *float64 `json:"modified_duration,omitempty"`
	Convexity        *float64 `json:"convexity,omitempty"`
}

// SensitivityRequest is the body for POST /api/v1/bond/sensitivity.
type SensitivityRequest struct {
	BondRequest
	DeltaYield float64 `json:"delta_yield"`
}

// SensitivityResponse compares the duration and duration+convexity
// approximations against exact repricing.
type SensitivityResponse struct {
	Price            float64  `json:"price"`
	DeltaYield       float64  `json:"delta_yield"`
	ModifiedDuration *float64 `json:"modified_duration,omitempty"`
	Convexity        *float64 `json:"convexity,omitempty"`
	FirstOrder       *float64 `json:"first_order,omitempty"`
	SecondOrder      *float64 `json:"second_order,omitempty"`
	Actual           *float64 `json:"actual,omitempty"`
}

// ImmunizeRequest is the body for POST /api/v1/bond/immunize.
// ShockBP optionally requests shock projections, in basis points.
type ImmunizeRequest struct {
	LiabilityAmount float64   `json:"liability_amount"`
	LiabilityYears  float64   `json:"liability_years"`
	CouponRate      float64   `json:"coupon_rate"`
	Yield           float64   `json:"yield"`
	Face            float64   `json:"face,omitempty"`
	Frequency       int       `json:"frequency,omitempty"`
	MaxExtension    float64   `json:"max_extension,omitempty"`
	Samples         int       `json:"samples,omitempty"`
	ShockBP         []float64 `json:"shock_bp,omitempty"`
}

// ImmunizeResponse is the selected plan plus any requested shocks.
type ImmunizeResponse struct {
	Plan   fixedincome.ImmunizationPlan  `json:"plan"`
	Shocks []fixedincome.ShockProjection `json:"shocks,omitempty"`
}

// YieldApproxRequest is the body for POST /api/v1/yield/approx.
type YieldApproxRequest struct {
	Price       float64 `json:"price"`
	Face        float64 `json:"face,omitempty"`
	CouponRate  float64 `json:"coupon_rate"`
	Years       float64 `json:"years"`
	CallPrice   float64 `json:"call_price,omitempty"`
	YearsToCall float64 `json:"years_to_call,omitempty"`
}

// YieldApproxResponse reports the closed-form yield approximations.
type YieldApproxResponse struct {
	CurrentYield *float64 `json:"current_yield,omitempty"`
	ApproxYTM    *float64 `json:"approx_ytm,omitempty"`
	ApproxYTC    *float64 `json:"approx_ytc,omitempty"`
}

// DDMRequest is the body for POST /api/v1/equity/ddm.
// Mode is "gordon" or "two_stage".
type DDMRequest struct {
	Mode           string  `json:"mode"`
	Dividend       float64 `json:"dividend"`
	RequiredReturn float64 `json:"required_return"`
	Growth         float64 `json:"growth,omitempty"`
	HighGrowth     float64 `json:"high_growth,omitempty"`
	StableGrowth   float64 `json:"stable_growth,omitempty"`
	HighYears      int     `json:"high_years,omitempty"`

	// CAPM inputs derive the required return when required_return is
	// omitted and a beta is supplied.
	RiskFree     float64 `json:"risk_free,omitempty"`
	Beta         float64 `json:"beta,omitempty"`
	MarketReturn float64 `json:"market_return,omitempty"`

	// P/E comparables cross-check, reported alongside the DDM value.
	EPS     float64 `json:"eps,omitempty"`
	PERatio float64 `json:"pe_ratio,omitempty"`
}

// DDMResponse reports the valuation; undefined (divergent) models omit
// the value.
type DDMResponse struct {
	Mode           string   `json:"mode"`
	RequiredReturn float64  `json:"required_return"`
	Value          *float64 `json:"value,omitempty"`
	PVHighGrowth   *float64 `json:"pv_high_growth,omitempty"`
	PVTerminal     *float64 `json:"pv_terminal,omitempty"`
	RelativeValue  *float64 `json:"relative_value,omitempty"`
}

// DuPontRequest is the body for POST /api/v1/ratios/dupont.
type DuPontRequest struct {
	Sales       float64 `json:"sales"`
	EBIT        float64 `json:"ebit"`
	Interest    float64 `json:"interest"`
	Tax         float64 `json:"tax"`
	TotalAssets float64 `json:"total_assets"`
	Equity      float64 `json:"equity"`
	WACC        float64 `json:"wacc,omitempty"`
	TaxRate     float64 `json:"tax_rate,omitempty"`

	// Cost detail for the margin waterfall; margins are reported only
	// when a COGS figure is supplied.
	COGS         float64 `json:"cogs,omitempty"`
	OpEx         float64 `json:"opex,omitempty"`
	Depreciation float64 `json:"depreciation,omitempty"`
}

// DuPontResponse is the decomposition plus EVA when a WACC is supplied
// and the margin waterfall when cost detail is supplied.
type DuPontResponse struct {
	ratios.DuPontResult
	EVA     *float64        `json:"eva,omitempty"`
	Margins *ratios.Margins `json:"margins,omitempty"`
}

// OptionsRequest is the body for POST /api/v1/options/payoff.
// Strategy is "call", "put", "covered_call", "protective_put", or
// "straddle".
type OptionsRequest struct {
	Strategy    string  `json:"strategy"`
	Position    string  `json:"position,omitempty"` // "long" (default) or "short"
	Strike      float64 `json:"strike"`
	Premium     float64 `json:"premium,omitempty"`
	Entry       float64 `json:"entry,omitempty"`
	CallPremium float64 `json:"call_premium,omitempty"`
	PutPremium  float64 `json:"put_premium,omitempty"`
	SpotMin     float64 `json:"spot_min"`
	SpotMax     float64 `json:"spot_max"`
	Samples     int     `json:"samples,omitempty"`
}

// OptionsResponse is the payoff diagram plus breakeven where defined.
type OptionsResponse struct {
	Strategy  string                `json:"strategy"`
	Breakeven *float64              `json:"breakeven,omitempty"`
	Points    []options.PayoffPoint `json:"points"`
}

// PerformanceRequest is the body for POST /api/v1/performance/metrics.
type PerformanceRequest struct {
	Returns       []float64 `json:"returns"`
	MarketReturns []float64 `json:"market_returns,omitempty"`
	Benchmark     []float64 `json:"benchmark,omitempty"`
	Beta          float64   `json:"beta,omitempty"`
	RiskFree      float64   `json:"risk_free,omitempty"`

	// International-return inputs; both exchange rates must be supplied
	// to get the currency-adjusted figures.
	LocalReturn float64 `json:"local_return,omitempty"`
	InitialFX   float64 `json:"initial_fx,omitempty"`
	FinalFX     float64 `json:"final_fx,omitempty"`
}

// PerformanceResponse reports each ratio that was computable from the
// supplied inputs.
type PerformanceResponse struct {
	Sharpe            *float64 `json:"sharpe,omitempty"`
	Treynor           *float64 `json:"treynor,omitempty"`
	JensensAlpha      *float64 `json:"jensens_alpha,omitempty"`
	InformationRatio  *float64 `json:"information_ratio,omitempty"`
	CurrencyReturn    *float64 `json:"currency_return,omitempty"`
	TotalReturnExact  *float64 `json:"total_return_exact,omitempty"`
	TotalReturnApprox *float64 `json:"total_return_approx,omitempty"`
}

// FeesRequest is the body for POST /api/v1/hedgefund/fees. The
// projection block is optional.
type FeesRequest struct {
	CurrentValue  float64                    `json:"current_value"`
	HighWaterMark float64                    `json:"high_water_mark"`
	MgmtRate      float64                    `json:"mgmt_rate"`
	IncentiveRate float64                    `json:"incentive_rate"`
	HurdleRate    float64                    `json:"hurdle_rate,omitempty"`
	Projection    *hedgefund.ProjectionInput `json:"projection,omitempty"`
}

// FeesResponse is the one-period breakdown plus the optional projection.
type FeesResponse struct {
	Fees       hedgefund.FeeBreakdown `json:"fees"`
	Projection *hedgefund.Projection  `json:"projection,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// bondFromRequest applies configured defaults and validates.
func (s *Server) bondFromRequest(req BondRequest) (fixedincome.Bond, error) {
	b := fixedincome.Bond{
		Face:       req.Face,
		CouponRate: req.CouponRate,
		Years:      req.Years,
		Frequency:  req.Frequency,
	}
	if b.Face == 0 {
		b.Face = s.cfg.Defaults.Face
	}
	if b.Frequency == 0 {
		b.Frequency = s.cfg.Defaults.Frequency
	}
	return b, b.Validate()
}

func (s *Server) handleBondPrice(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := s.bondFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	price := b.Price(req.Yield)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: PriceResponse{
			Price:        price,
			Coupon:       b.Coupon(),
			Periods:      b.Periods(),
			CurrentYield: optFloat(fixedincome.CurrentYield(b.CouponRate, b.Face, price)),
		},
	})
}

func (s *Server) handleBondRisk(w http.ResponseWriter, r *http.Request) {
	var req BondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := s.bondFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	macaulay := b.Duration(req.Yield)
	resp := RiskResponse{
		Price:            b.Price(req.Yield),
		MacaulayDuration: optFloat(macaulay),
		Convexity:        optFloat(b.Convexity(req.Yield)),
	}
	if !math.IsNaN(macaulay) {
		resp.ModifiedDuration = optFloat(fixedincome.ModifiedDuration(macaulay, req.Yield, b.Frequency))
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleBondSensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	b, err := s.bondFromRequest(req.BondRequest)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sens := b.Sensitivity(req.Yield, req.DeltaYield)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: SensitivityResponse{
			Price:            b.Price(req.Yield),
			DeltaYield:       sens.DeltaYield,
			ModifiedDuration: optFloat(sens.ModifiedDuration),
			Convexity:        optFloat(sens.Convexity),
			FirstOrder:       optFloat(sens.FirstOrder),
			SecondOrder:      optFloat(sens.SecondOrder),
			Actual:           optFloat(sens.Actual),
		},
	})
}

func (s *Server) handleImmunize(w http.ResponseWriter, r *http.Request) {
	var req ImmunizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LiabilityAmount <= 0 || req.LiabilityYears <= 0 {
		writeError(w, http.StatusBadRequest, "liability_amount and liability_years must be positive")
		return
	}

	in := fixedincome.ImmunizationInput{
		LiabilityAmount: req.LiabilityAmount,
		LiabilityYears:  req.LiabilityYears,
		CouponRate:      req.CouponRate,
		Yield:           req.Yield,
		Face:            req.Face,
		Frequency:       req.Frequency,
		MaxExtension:    req.MaxExtension,
		Samples:         req.Samples,
	}
	plan, err := fixedincome.Immunize(in)
	if err != nil {
		if errors.Is(err, fixedincome.ErrNoFeasibleMaturity) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := ImmunizeResponse{Plan: plan}
	for _, bp := range req.ShockBP {
		resp.Shocks = append(resp.Shocks, plan.ProjectShock(in, bp/10000))
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleBondCurve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := BondRequest{
		Face:       queryFloat(q.Get("face"), 0),
		CouponRate: queryFloat(q.Get("coupon_rate"), 0),
		Years:      queryFloat(q.Get("years"), 0),
		Frequency:  int(queryFloat(q.Get("frequency"), 0)),
	}
	b, err := s.bondFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	minYield := queryFloat(q.Get("min_yield"), 0.01)
	maxYield := queryFloat(q.Get("max_yield"), 0.15)
	samples := int(queryFloat(q.Get("samples"), float64(s.cfg.Defaults.Samples)))

	points := b.PriceYieldCurve(minYield, maxYield, samples)
	if points == nil {
		writeError(w, http.StatusBadRequest, "invalid yield range or sample count")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: points})
}

func (s *Server) handleYieldApprox(w http.ResponseWriter, r *http.Request) {
	var req YieldApproxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Face == 0 {
		req.Face = s.cfg.Defaults.Face
	}
	if req.Price <= 0 {
		writeError(w, http.StatusBadRequest, "price must be positive")
		return
	}

	resp := YieldApproxResponse{
		CurrentYield: optFloat(fixedincome.CurrentYield(req.CouponRate, req.Face, req.Price)),
		ApproxYTM:    optFloat(fixedincome.ApproxYTM(req.Price, req.Face, req.CouponRate, req.Years)),
	}
	if req.YearsToCall > 0 {
		annualCoupon := req.Face * req.CouponRate
		resp.ApproxYTC = optFloat(fixedincome.ApproxYTC(req.Price, req.CallPrice, annualCoupon, req.YearsToCall))
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleEquityDDM(w http.ResponseWriter, r *http.Request) {
	var req DDMRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RequiredReturn == 0 && req.Beta != 0 {
		req.RequiredReturn = equity.CAPMRequiredReturn(req.RiskFree, req.Beta, req.MarketReturn)
	}

	resp := DDMResponse{RequiredReturn: req.RequiredReturn}
	switch req.Mode {
	case "", "gordon":
		resp.Mode = "gordon"
		resp.Value = optFloat(equity.GordonGrowth(req.Dividend, req.Growth, req.RequiredReturn))
	case "two_stage":
		result := equity.TwoStageDDM(equity.TwoStageDDMParams{
			D0:             req.Dividend,
			HighGrowth:     req.HighGrowth,
			StableGrowth:   req.StableGrowth,
			HighYears:      req.HighYears,
			RequiredReturn: req.RequiredReturn,
		})
		resp.Mode = "two_stage"
		resp.Value = optFloat(result.Value)
		resp.PVHighGrowth = optFloat(result.PVHighGrowth)
		resp.PVTerminal = optFloat(result.PVTerminal)
	default:
		writeError(w, http.StatusBadRequest, "mode must be gordon or two_stage")
		return
	}

	if req.PERatio > 0 {
		resp.RelativeValue = optFloat(equity.PERelativeValue(req.EPS, req.PERatio))
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleDuPont(w http.ResponseWriter, r *http.Request) {
	var req DuPontRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := DuPontResponse{
		DuPontResult: ratios.DuPont(req.Sales, req.EBIT, req.Interest, req.Tax, req.TotalAssets, req.Equity),
	}
	if req.WACC > 0 {
		resp.EVA = optFloat(ratios.EVA(req.EBIT, req.TaxRate, req.WACC, req.TotalAssets))
	}
	if req.COGS > 0 {
		m := ratios.ComputeMargins(ratios.IncomeStatement{
			Revenue:      req.Sales,
			COGS:         req.COGS,
			OpEx:         req.OpEx,
			Depreciation: req.Depreciation,
			Interest:     req.Interest,
			TaxRate:      req.TaxRate,
		})
		resp.Margins = &m
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleOptionsPayoff(w http.ResponseWriter, r *http.Request) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Samples == 0 {
		req.Samples = s.cfg.Defaults.Samples
	}
	pos := options.Long
	if req.Position == string(options.Short) {
		pos = options.Short
	}

	var payoff func(float64) float64
	resp := OptionsResponse{Strategy: req.Strategy}

	switch req.Strategy {
	case "call":
		payoff = func(spot float64) float64 { return options.CallPayoff(spot, req.Strike, req.Premium, pos) }
		resp.Breakeven = optFloat(options.CallBreakeven(req.Strike, req.Premium))
	case "put":
		payoff = func(spot float64) float64 { return options.PutPayoff(spot, req.Strike, req.Premium, pos) }
		resp.Breakeven = optFloat(options.PutBreakeven(req.Strike, req.Premium))
	case "covered_call":
		payoff = func(spot float64) float64 {
			return options.CoveredCall(spot, req.Entry, req.Strike, req.Premium)
		}
	case "protective_put":
		payoff = func(spot float64) float64 {
			return options.ProtectivePut(spot, req.Entry, req.Strike, req.Premium)
		}
	case "straddle":
		payoff = func(spot float64) float64 {
			return options.Straddle(spot, req.Strike, req.CallPremium, req.PutPremium)
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown strategy: "+req.Strategy)
		return
	}

	points := options.Series(req.SpotMin, req.SpotMax, req.Samples, payoff)
	if points == nil {
		writeError(w, http.StatusBadRequest, "invalid spot range or sample count")
		return
	}
	resp.Points = points
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handlePerformanceMetrics(w http.ResponseWriter, r *http.Request) {
	var req PerformanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hasFX := req.InitialFX != 0 && req.FinalFX != 0
	if len(req.Returns) == 0 && !hasFX {
		writeError(w, http.StatusBadRequest, "returns series or exchange rates are required")
		return
	}

	var resp PerformanceResponse
	if len(req.Returns) > 0 {
		resp.Sharpe = optFloat(performance.Sharpe(req.Returns, req.RiskFree))
		if req.Beta != 0 {
			resp.Treynor = optFloat(performance.Treynor(req.Returns, req.Beta, req.RiskFree))
		}
		if len(req.MarketReturns) > 0 {
			resp.JensensAlpha = optFloat(performance.JensensAlpha(req.Returns, req.MarketReturns, req.Beta, req.RiskFree))
		}
		if len(req.Benchmark) > 0 {
			resp.InformationRatio = optFloat(performance.InformationRatio(req.Returns, req.Benchmark))
		}
	}
	if hasFX {
		fx := performance.CurrencyReturn(req.InitialFX, req.FinalFX)
		resp.CurrencyReturn = optFloat(fx)
		resp.TotalReturnExact = optFloat(performance.TotalReturnExact(req.LocalReturn, fx))
		resp.TotalReturnApprox = optFloat(performance.TotalReturnApprox(req.LocalReturn, fx))
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleHedgeFundFees(w http.ResponseWriter, r *http.Request) {
	var req FeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := FeesResponse{
		Fees: hedgefund.ComputeFees(req.CurrentValue, req.HighWaterMark, req.MgmtRate, req.IncentiveRate, req.HurdleRate),
	}
	if req.Projection != nil {
		p := hedgefund.Project(*req.Projection)
		resp.Projection = &p
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleMarketYieldCurve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.MarketData.TimeoutSec)*time.Second)
	defer cancel()

	curve, err := s.treasury.GetYieldCurve(ctx)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.wsHub.Broadcast(WSMessage{Type: "yield_curve", Data: curve})

	// ?maturity=N interpolates the curve at N years, for prefilling a
	// calculator's yield input.
	if raw := r.URL.Query().Get("maturity"); raw != "" {
		maturity := queryFloat(raw, -1)
		if maturity < 0 {
			writeError(w, http.StatusBadRequest, "maturity must be a non-negative number of years")
			return
		}
		yield, ok := marketdata.InterpolateYield(curve, maturity)
		if !ok {
			writeError(w, http.StatusBadGateway, "yield curve has no points to interpolate")
			return
		}
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: CurveYieldResponse{
			Date:     curve.Date,
			Source:   curve.Source,
			Maturity: maturity,
			Yield:    yield,
		}})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: curve})
}

// CurveYieldResponse is the interpolated-yield form of the market
// yield-curve endpoint.
type CurveYieldResponse struct {
	Date     time.Time `json:"date"`
	Source   string    `json:"source"`
	Maturity float64   `json:"maturity"`
	Yield    float64   `json:"yield"`
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// optFloat maps NaN (an undefined result) to a JSON-omittable nil.
func optFloat(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func queryFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
