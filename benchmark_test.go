package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-itineraries/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-itineraries/config"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/auth"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/mailer"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/planner"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/preferences"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/selection"
	"github.com/FACorreiaa/go-trip-itineraries/internal/api/spots"
	router "github.com/FACorreiaa/go-trip-itineraries/internal/router"
	"github.com/FACorreiaa/go-trip-itineraries/internal/types"
)

// BenchmarkSuite drives the production router over in-memory storage so
// the numbers reflect routing, middleware, auth and handler work rather
// than the database.
type BenchmarkSuite struct {
	router    *chi.Mux
	authToken string
	userID    uuid.UUID
	catalog   []types.TouristSpot
}

// benchmarkCatalog builds n synthetic spots with rotating categories,
// budgets and ratings so preference scoring has mixed signals to chew on.
func benchmarkCatalog(n int) []types.TouristSpot {
	budgets := []string{"low", "medium", "high"}
	categorySets := [][]string{
		{"Nature", "Hiking"},
		{"Culture", "History"},
		{"Food", "Market"},
		{"Beach", "Nature"},
		{"Gardens"},
	}

	catalog := make([]types.TouristSpot, 0, n)
	for i := 0; i < n; i++ {
		rating := 3.0 + float64(i%20)/10
		budget := budgets[i%len(budgets)]
		catalog = append(catalog, types.TouristSpot{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Spot %03d", i),
			Location:    "Sintra",
			Categories:  categorySets[i%len(categorySets)],
			Rating:      &rating,
			BudgetLevel: &budget,
			IsHiddenGem: i%7 == 0,
			CreatedAt:   time.Now(),
		})
	}
	return catalog
}

// setupBenchmarkSuite initializes the benchmark test suite
func setupBenchmarkSuite() *BenchmarkSuite {
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	catalog := benchmarkCatalog(200)
	spotRepo := &memSpotRepo{spots: catalog}
	prefsRepo := &memPrefsRepo{prefs: make(map[uuid.UUID]types.TravelPreferences)}
	selectionStore := &memSelectionStore{sessions: make(map[uuid.UUID][]uuid.UUID)}
	itineraryRepo := &memItineraryRepo{items: make(map[uuid.UUID][]types.Itinerary)}

	// The hook route is registered but never exercised by benchmarks, so
	// the provider URL can be a dead end.
	emailCfg := config.EmailConfig{
		ProviderBaseURL: "http://127.0.0.1:0",
		APIKey:          "re_bench_key",
		FromAddress:     "Trip Itineraries <no-reply@example.com>",
		Subject:         "Confirm your email",
		SiteBaseURL:     "https://app.example.com",
		WebhookSecret:   testHookSecret,
		Timeout:         time.Second,
	}

	spotsService := spots.NewServiceImpl(spotRepo, logger)
	prefsService := preferences.NewServiceImpl(prefsRepo, logger)
	selectionService := selection.NewServiceImpl(selectionStore, spotsService, logger)
	plannerService := planner.NewServiceImpl(spotsService, prefsRepo, selectionStore, logger)
	itineraryService := itinerary.NewService(itineraryRepo, spotsService, selectionStore, logger)
	mailerService := mailer.NewService(mailer.NewHTTPProvider(emailCfg, logger), emailCfg, logger)

	routerConfig := &router.Config{
		SpotsHandler:           spots.NewHandler(spotsService, logger),
		PreferencesHandler:     preferences.NewHandler(prefsService, logger),
		SelectionHandler:       selection.NewHandler(selectionService, logger),
		PlannerHandler:         planner.NewHandler(plannerService, logger),
		ItineraryHandler:       itinerary.NewHandler(itineraryService, logger),
		MailerHandler:          mailer.NewHandler(mailerService, emailCfg.WebhookSecret, logger),
		AuthenticateMiddleware: auth.Authenticate(logger, testJWTConfig),
	}

	userID := uuid.New()
	claims := &types.Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testJWTConfig.Issuer,
			Audience:  jwt.ClaimStrings{testJWTConfig.Audience},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTConfig.SecretKey))
	if err != nil {
		panic(err)
	}

	return &BenchmarkSuite{
		router:    buildRouter(logger, 60*time.Second, router.SetupRouter(routerConfig)),
		authToken: token,
		userID:    userID,
		catalog:   catalog,
	}
}

// makeAuthenticatedRequest helper for benchmark tests
func (suite *BenchmarkSuite) makeAuthenticatedRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.authToken)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	return w
}

// BenchmarkCatalogBrowse benchmarks the full spot listing endpoint
func BenchmarkCatalogBrowse(b *testing.B) {
	suite := setupBenchmarkSuite()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("GET", "/api/v1/spots", nil)
	}
}

// BenchmarkSpotDetail benchmarks a single spot lookup
func BenchmarkSpotDetail(b *testing.B) {
	suite := setupBenchmarkSuite()
	path := "/api/v1/spots/" + suite.catalog[42].ID.String()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("GET", path, nil)
	}
}

// BenchmarkPreferenceUpsert benchmarks saving travel preferences
func BenchmarkPreferenceUpsert(b *testing.B) {
	suite := setupBenchmarkSuite()
	budget := "low"
	hiddenGems := true
	prefsReq := types.UpsertTravelPreferencesRequest{
		PreferredActivities: []string{"Hiking", "Food"},
		BudgetRange:         &budget,
		HiddenGems:          &hiddenGems,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("PUT", "/api/v1/preferences", prefsReq)
	}
}

// BenchmarkSuggestions benchmarks the auto-select flow end to end:
// catalog load, preference scoring over 200 spots, selection replace.
func BenchmarkSuggestions(b *testing.B) {
	suite := setupBenchmarkSuite()
	budget := "low"
	hiddenGems := true
	suite.makeAuthenticatedRequest("PUT", "/api/v1/preferences", types.UpsertTravelPreferencesRequest{
		PreferredActivities: []string{"Hiking"},
		BudgetRange:         &budget,
		HiddenGems:          &hiddenGems,
	})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("POST", "/api/v1/itineraries/suggestions", nil)
	}
}

// BenchmarkSelectionToggle benchmarks flipping one spot in and out of the
// working selection
func BenchmarkSelectionToggle(b *testing.B) {
	suite := setupBenchmarkSuite()
	path := "/api/v1/selection/" + suite.catalog[0].ID.String()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("PUT", path, nil)
	}
}

// BenchmarkSelectionView benchmarks hydrating a loaded selection session
func BenchmarkSelectionView(b *testing.B) {
	suite := setupBenchmarkSuite()
	ids := make([]uuid.UUID, 0, 20)
	for i := 0; i < 20; i++ {
		ids = append(ids, suite.catalog[i*5].ID)
	}
	suite.makeAuthenticatedRequest("PUT", "/api/v1/selection", types.ReplaceSelectionRequest{SpotIDs: ids})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("GET", "/api/v1/selection", nil)
	}
}

// BenchmarkConcurrentRequests benchmarks concurrent requests handling
func BenchmarkConcurrentRequests(b *testing.B) {
	suite := setupBenchmarkSuite()

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			suite.makeAuthenticatedRequest("GET", "/api/v1/spots", nil)
		}
	})
}

// BenchmarkRequestRouting benchmarks the router performance
func BenchmarkRequestRouting(b *testing.B) {
	suite := setupBenchmarkSuite()

	routes := []string{
		"/api/v1/spots",
		"/api/v1/preferences",
		"/api/v1/selection",
		"/api/v1/itineraries",
		"/ping",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("GET", routes[i%len(routes)], nil)
	}
}

// BenchmarkPreferenceScoring benchmarks the ranking core in isolation,
// without HTTP or JSON overhead.
func BenchmarkPreferenceScoring(b *testing.B) {
	catalog := benchmarkCatalog(200)
	budget := "low"
	hiddenGems := true
	prefs := &types.TravelPreferences{
		PreferredActivities: []string{"Hiking", "Food"},
		BudgetRange:         &budget,
		SceneryTypes:        []string{"coastal"},
		HiddenGems:          &hiddenGems,
	}
	scorer := planner.NewScorer()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		scorer.TopSpots(catalog, prefs, planner.DefaultSuggestionCount)
	}
}

// BenchmarkSnapshotSerialization benchmarks marshaling a saved itinerary
// payload, the largest response body the API produces
func BenchmarkSnapshotSerialization(b *testing.B) {
	catalog := benchmarkCatalog(planner.DefaultSuggestionCount)
	snapshots := make([]types.SpotSnapshot, 0, len(catalog))
	categories := make([]string, 0)
	for _, spot := range catalog {
		snapshots = append(snapshots, spot.Snapshot())
		categories = append(categories, spot.Categories...)
	}
	it := types.Itinerary{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Name:       "Benchmark Trip",
		Spots:      snapshots,
		Categories: categories,
		CreatedAt:  time.Now(),
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		data, _ := json.Marshal(it)

		var result types.Itinerary
		json.Unmarshal(data, &result)
	}
}

// BenchmarkCompleteWorkflow benchmarks a complete trip planning workflow:
// preferences, suggestions, toggle, save.
func BenchmarkCompleteWorkflow(b *testing.B) {
	suite := setupBenchmarkSuite()
	budget := "medium"
	prefsReq := types.UpsertTravelPreferencesRequest{
		PreferredActivities: []string{"Culture"},
		BudgetRange:         &budget,
	}
	togglePath := "/api/v1/selection/" + suite.catalog[3].ID.String()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		suite.makeAuthenticatedRequest("PUT", "/api/v1/preferences", prefsReq)
		suite.makeAuthenticatedRequest("POST", "/api/v1/itineraries/suggestions", nil)
		suite.makeAuthenticatedRequest("PUT", togglePath, nil)
		suite.makeAuthenticatedRequest("POST", "/api/v1/itineraries",
			types.CreateItineraryRequest{Name: fmt.Sprintf("Trip %d", i)})
	}
}
