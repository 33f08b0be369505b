package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/fitlife/nutrio/internal/assistant"
	"github.com/fitlife/nutrio/internal/config"
	"github.com/fitlife/nutrio/internal/dataset"
	"github.com/fitlife/nutrio/internal/embedding"
	"github.com/fitlife/nutrio/internal/keyword"
	"github.com/fitlife/nutrio/internal/mealplan"
	"github.com/fitlife/nutrio/internal/models"
	"github.com/fitlife/nutrio/internal/rag"
	"github.com/fitlife/nutrio/internal/recommend"
	"github.com/fitlife/nutrio/internal/storage"
	"github.com/fitlife/nutrio/internal/vector"
)

func serverFoods() []*models.FoodItem {
	return []*models.FoodItem{
		{Name: "Grilled Chicken Breast", Calories: 165, Fat: 3.6, Protein: 31, Category: "protein"},
		{Name: "Salmon Fillet", Calories: 208, Fat: 13, Protein: 20, Category: "protein"},
		{Name: "Brown Rice", Calories: 112, Fat: 0.9, Carbohydrates: 24, Protein: 2.6, Fiber: 1.8, Category: "grain"},
		{Name: "Broccoli", Calories: 34, Fat: 0.4, Carbohydrates: 7, Protein: 2.8, Fiber: 2.6, Category: "vegetable"},
		{Name: "Greek Yogurt", Calories: 59, Fat: 0.4, Carbohydrates: 3.6, Protein: 10, Category: "dairy"},
		{Name: "Banana", Calories: 89, Fat: 0.3, Carbohydrates: 23, Protein: 1.1, Sugars: 12, Fiber: 2.6, Category: "fruit"},
		{Name: "Eggs", Calories: 155, Fat: 11, Carbohydrates: 1.1, Protein: 13, Category: "protein"},
		{Name: "Quinoa", Calories: 120, Fat: 1.9, Carbohydrates: 21, Protein: 4.4, Fiber: 2.8, Category: "grain"},
	}
}

func testServer(t *testing.T, withStorage bool) *Server {
	t.Helper()
	foods := serverFoods()

	engine := recommend.NewEngine(foods)
	planner := mealplan.NewPlanner(engine, rand.New(rand.NewSource(42)), zap.NewNop())

	embedder := embedding.NewHashEmbedder(32)
	vecIdx, err := vector.NewMemoryIndex(32)
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(foods))
	texts := make([]string, len(foods))
	for i, f := range foods {
		ids[i] = f.Name
		texts[i] = dataset.Describe(f)
	}
	vecs, err := embedder.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if err := vecIdx.Add(context.Background(), ids, vecs); err != nil {
		t.Fatal(err)
	}
	kwIdx, err := keyword.NewIndex("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { kwIdx.Close() })
	if err := kwIdx.IndexFoods(context.Background(), foods); err != nil {
		t.Fatal(err)
	}
	retriever := rag.NewRetriever(foods, embedder, vecIdx, kwIdx, zap.NewNop())
	pipeline := rag.NewPipeline(retriever, nil, zap.NewNop())

	var store storage.Storage
	if withStorage {
		s, err := storage.NewSQLiteStorage(t.TempDir() + "/test.db")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { s.Close() })
		store = s
	}

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	return NewServer(&Components{
		Engine:    engine,
		Planner:   planner,
		Pipeline:  pipeline,
		Assistant: assistant.New(engine, zap.NewNop()),
	}, store, cfg, zap.NewNop())
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func validProfile() models.UserProfile {
	return models.UserProfile{
		WeightKg:      80,
		HeightCm:      180,
		Age:           30,
		Sex:           "male",
		ActivityLevel: models.ActivityModeratelyActive,
		Goal:          models.GoalMuscleGain,
	}
}

func TestHandleNeeds(t *testing.T) {
	srv := testServer(t, false)
	router := srv.Router()

	w := postJSON(t, router, "/api/v1/needs", validProfile())
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var needs models.NutritionalNeeds
	if err := json.NewDecoder(w.Body).Decode(&needs); err != nil {
		t.Fatal(err)
	}
	if needs.BMR <= 0 || needs.TargetCalories <= needs.BMR {
		t.Errorf("unexpected needs: BMR=%v target=%v", needs.BMR, needs.TargetCalories)
	}
}

func TestHandleNeeds_InvalidProfile(t *testing.T) {
	srv := testServer(t, false)
	router := srv.Router()

	p := validProfile()
	p.WeightKg = 0
	w := postJSON(t, router, "/api/v1/needs", p)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleBMI(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/bmi", validProfile())
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var report models.BMIReport
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	// 80kg at 1.80m is BMI 24.7.
	if report.BMI < 24 || report.BMI > 25 {
		t.Errorf("BMI: got %v", report.BMI)
	}
}

func TestHandleRecommend(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/recommend", recommendRequest{
		Profile: validProfile(),
		Limit:   3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Needs models.NutritionalNeeds `json:"needs"`
		Foods []*models.RankedFood    `json:"foods"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Foods) != 3 {
		t.Errorf("expected 3 foods, got %d", len(out.Foods))
	}
}

func TestHandleAlternatives(t *testing.T) {
	srv := testServer(t, false)
	router := srv.Router()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/alternatives?food=chicken&n=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		Alternatives []*models.RankedFood `json:"alternatives"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Alternatives) == 0 || len(out.Alternatives) > 2 {
		t.Errorf("alternatives: got %d", len(out.Alternatives))
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/alternatives", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing food: got %d, want 400", w.Code)
	}
}

func TestHandlePlan(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/plan", planRequest{
		Profile:     validProfile(),
		Preferences: models.PlanPreferences{MealsPerDay: 3, VarietyDays: 2},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Plan  models.WeekPlan  `json:"plan"`
		Stats models.PlanStats `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Plan.Days) != 2 {
		t.Errorf("expected 2 days, got %d", len(out.Plan.Days))
	}
	if out.Stats.AvgDailyCalories <= 0 {
		t.Errorf("stats: %+v", out.Stats)
	}
}

func TestHandleQuery(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/query", models.RAGQuery{Query: "high protein foods"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var result models.RAGResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Response == "" || result.UsedGeneration {
		t.Errorf("expected summary fallback, got %+v", result)
	}
}

func TestHandleQuery_EmptyQuery(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/query", models.RAGQuery{})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", w.Code)
	}
}

func TestHandleAsk(t *testing.T) {
	srv := testServer(t, false)
	p := validProfile()
	w := postJSON(t, srv.Router(), "/api/v1/ask", askRequest{
		Query:   "suggest a breakfast",
		Profile: &p,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var answer assistant.Answer
	if err := json.NewDecoder(w.Body).Decode(&answer); err != nil {
		t.Fatal(err)
	}
	if answer.Intent != assistant.IntentBreakfast || answer.Confidence != 0.9 {
		t.Errorf("answer: intent=%s confidence=%v", answer.Intent, answer.Confidence)
	}
}

func TestHandleAsk_NoProfile(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/ask", askRequest{Query: "suggest a breakfast"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var answer assistant.Answer
	if err := json.NewDecoder(w.Body).Decode(&answer); err != nil {
		t.Fatal(err)
	}
	if answer.Response == "" {
		t.Error("expected setup notice response")
	}
}

func TestProfileEndpoints(t *testing.T) {
	srv := testServer(t, true)
	router := srv.Router()

	stored := models.StoredProfile{Name: "alex", Profile: validProfile()}
	w := postJSON(t, router, "/api/v1/profiles", stored)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body: %s", w.Code, w.Body.String())
	}
	var created models.StoredProfile
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected generated ID")
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+created.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("get: got %d", rec.Code)
	}

	w = postJSON(t, router, "/api/v1/profiles/"+created.ID+"/progress",
		models.ProgressEntry{WeightKg: 79.5})
	if w.Code != http.StatusCreated {
		t.Errorf("add progress: got %d, body: %s", w.Code, w.Body.String())
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+created.ID+"/progress", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("list progress: got %d", rec.Code)
	}
	var progress struct {
		Entries []*models.ProgressEntry `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&progress); err != nil {
		t.Fatal(err)
	}
	if len(progress.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(progress.Entries))
	}

	r = httptest.NewRequest(http.MethodDelete, "/api/v1/profiles/"+created.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("delete: got %d", rec.Code)
	}
}

func TestProfileEndpoints_StorageNotEnabled(t *testing.T) {
	srv := testServer(t, false)
	w := postJSON(t, srv.Router(), "/api/v1/profiles",
		models.StoredProfile{Name: "alex", Profile: validProfile()})
	if w.Code != http.StatusNotImplemented {
		t.Errorf("status: got %d, want 501", w.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv := testServer(t, true)
	r := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Foods    int   `json:"foods"`
		Profiles int64 `json:"profiles"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Foods != len(serverFoods()) {
		t.Errorf("foods: got %d, want %d", out.Foods, len(serverFoods()))
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t, false)
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestSwap(t *testing.T) {
	srv := testServer(t, false)
	engine := recommend.NewEngine(serverFoods()[:2])
	srv.Swap(&Components{Engine: engine})
	if srv.current().Engine.Size() != 2 {
		t.Errorf("expected swapped engine with 2 foods, got %d", srv.current().Engine.Size())
	}
}
