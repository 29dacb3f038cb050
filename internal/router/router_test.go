package router

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"trivia-backend/internal/config"
	"trivia-backend/internal/database"
	"trivia-backend/internal/services"
	"trivia-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type envelope struct {
	Success         bool              `json:"success"`
	Error           int               `json:"error"`
	Message         string            `json:"message"`
	Categories      map[string]string `json:"categories"`
	Questions       json.RawMessage   `json:"questions"`
	TotalQuestions  int64             `json:"total_questions"`
	CurrentCategory *uint             `json:"current_category"`
	Question        *questionJSON     `json:"question"`
	ID              uint              `json:"id"`
}

type questionJSON struct {
	ID         uint   `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   uint   `json:"category"`
	Difficulty int    `json:"difficulty"`
}

func testConfig() *config.Config {
	return &config.Config{QuestionsPerPage: 10, CORSOrigins: []string{"*"}}
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	testutil.Seed(t, db)
	return New(testConfig(), db), db
}

func do(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w, env
}

func questionsOf(t *testing.T, env envelope) []questionJSON {
	t.Helper()
	var qs []questionJSON
	if err := json.Unmarshal(env.Questions, &qs); err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	return qs
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, env envelope, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	if env.Success || env.Error != status || env.Message != message {
		t.Fatalf("unexpected error envelope %+v", env)
	}
}

func TestGetCategories(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodGet, "/categories", nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if env.Categories["1"] != "Science" || len(env.Categories) != 3 {
		t.Fatalf("categories = %v", env.Categories)
	}
}

func TestGetCategoriesEmptyStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(testConfig(), testutil.NewDB(t))
	w, env := do(t, r, http.MethodGet, "/categories", nil)
	expectError(t, w, env, http.StatusNotFound, "resource not found")
}

func TestPostCategoriesNotAllowed(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodPost, "/categories", map[string]string{"type": "Music"})
	expectError(t, w, env, http.StatusMethodNotAllowed, "method not allowed")
}

func TestGetQuestionsPaged(t *testing.T) {
	r, db := newTestRouter(t)
	testutil.AddQuestions(t, db, 3, 8)

	w, env := do(t, r, http.MethodGet, "/questions?page=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if qs := questionsOf(t, env); len(qs) != 3 {
		t.Fatalf("page 2 has %d questions, want 3", len(qs))
	}
	if env.TotalQuestions != 13 {
		t.Fatalf("total_questions = %d, want 13", env.TotalQuestions)
	}
	if env.CurrentCategory != nil {
		t.Fatalf("current_category = %v, want null", *env.CurrentCategory)
	}
	if len(env.Categories) != 3 {
		t.Fatalf("categories = %v", env.Categories)
	}
}

func TestGetQuestionsBadPage(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodGet, "/questions?page=999", nil)
	expectError(t, w, env, http.StatusNotFound, "resource not found")

	w, env = do(t, r, http.MethodGet, "/questions?page=abc", nil)
	expectError(t, w, env, http.StatusBadRequest, "bad request")
}

func TestCategoryQuestionsOnlyThatCategory(t *testing.T) {
	r, db := newTestRouter(t)
	for _, id := range []uint{1, 2, 3} {
		w, env := do(t, r, http.MethodGet, "/categories/"+strconv.Itoa(int(id))+"/questions", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("category %d: status %d", id, w.Code)
		}
		qs := questionsOf(t, env)
		for _, q := range qs {
			if q.Category != id {
				t.Fatalf("category %d returned question %d of category %d", id, q.ID, q.Category)
			}
		}
		if want := len(testutil.QuestionIDs(t, db, id)); len(qs) != want || env.TotalQuestions != int64(want) {
			t.Fatalf("category %d: %d questions, total %d, want %d", id, len(qs), env.TotalQuestions, want)
		}
		if env.CurrentCategory == nil || *env.CurrentCategory != id {
			t.Fatalf("current_category = %v, want %d", env.CurrentCategory, id)
		}
	}
}

func TestCategoryQuestionsUnknownCategory(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodGet, "/categories/999/questions", nil)
	expectError(t, w, env, http.StatusNotFound, "resource not found")

	w, env = do(t, r, http.MethodGet, "/categories/abc/questions", nil)
	expectError(t, w, env, http.StatusNotFound, "resource not found")
}

func TestDeleteQuestionRemovesFromListing(t *testing.T) {
	r, db := newTestRouter(t)
	target := testutil.QuestionIDs(t, db, 0)[0]

	w, env := do(t, r, http.MethodDelete, "/questions/"+strconv.Itoa(int(target)), nil)
	if w.Code != http.StatusOK || !env.Success || env.ID != target {
		t.Fatalf("delete: status %d, body %s", w.Code, w.Body.String())
	}
	if env.Message != "Question deleted successfully" {
		t.Fatalf("message = %q", env.Message)
	}

	_, env = do(t, r, http.MethodGet, "/questions", nil)
	for _, q := range questionsOf(t, env) {
		if q.ID == target {
			t.Fatalf("deleted question %d still listed", target)
		}
	}

	w, env = do(t, r, http.MethodDelete, "/questions/"+strconv.Itoa(int(target)), nil)
	expectError(t, w, env, http.StatusNotFound, "resource not found")
}

func TestCreateQuestion(t *testing.T) {
	r, _ := newTestRouter(t)
	body := map[string]any{
		"question":   "What is the largest lake in Africa?",
		"answer":     "Lake Victoria",
		"category":   "3",
		"difficulty": 2,
	}
	w, env := do(t, r, http.MethodPost, "/questions", body)
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var created questionJSON
	if err := json.Unmarshal(env.Questions, &created); err != nil {
		t.Fatalf("decode created question: %v", err)
	}
	if created.ID == 0 || created.Category != 3 || created.Difficulty != 2 {
		t.Fatalf("created = %+v", created)
	}

	_, env = do(t, r, http.MethodGet, "/categories/3/questions", nil)
	if qs := questionsOf(t, env); len(qs) != 1 || qs[0].ID != created.ID {
		t.Fatalf("created question not listed in its category: %+v", qs)
	}
}

func TestCreateQuestionErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/questions", "{not json")
	expectError(t, w, env, http.StatusBadRequest, "bad request")

	w, env = do(t, r, http.MethodPost, "/questions", map[string]any{
		"question": "q", "answer": "a", "category": 1, "difficulty": 9,
	})
	expectError(t, w, env, http.StatusUnprocessableEntity, "unprocessable")

	w, env = do(t, r, http.MethodPost, "/questions", map[string]any{
		"answer": "a", "category": 1, "difficulty": 1,
	})
	expectError(t, w, env, http.StatusUnprocessableEntity, "unprocessable")
}

func TestSearchCaseInsensitive(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, term := range []string{"giaconda", "GIACONDA", "Giac"} {
		w, env := do(t, r, http.MethodPost, "/questions/search", map[string]string{"searchTerm": term})
		if w.Code != http.StatusOK {
			t.Fatalf("search %q: status %d", term, w.Code)
		}
		qs := questionsOf(t, env)
		if len(qs) != 1 || !strings.Contains(strings.ToLower(qs[0].Question), "giaconda") {
			t.Fatalf("search %q: got %+v", term, qs)
		}
		if env.TotalQuestions != 1 {
			t.Fatalf("search %q: total_questions = %d", term, env.TotalQuestions)
		}
	}
}

func TestSearchNoMatchesIsEmptyList(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodPost, "/questions/search", map[string]string{"searchTerm": "zzzz"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if string(env.Questions) != "[]" {
		t.Fatalf("questions = %s, want []", env.Questions)
	}
}

func TestSearchErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/questions/search", map[string]string{"searchTerm": " "})
	expectError(t, w, env, http.StatusBadRequest, "bad request")

	w, env = do(t, r, http.MethodGet, "/questions/search", nil)
	expectError(t, w, env, http.StatusMethodNotAllowed, "method not allowed")
}

func TestQuizNeverRepeatsAndExhausts(t *testing.T) {
	r, db := newTestRouter(t)
	art := testutil.QuestionIDs(t, db, 2)

	previous := []uint{}
	for range art {
		w, env := do(t, r, http.MethodPost, "/quizzes", map[string]any{
			"quiz_category":      map[string]any{"id": 2, "type": "Art"},
			"previous_questions": previous,
		})
		if w.Code != http.StatusOK || env.Question == nil {
			t.Fatalf("status %d, body %s", w.Code, w.Body.String())
		}
		if env.Question.Category != 2 {
			t.Fatalf("got question from category %d", env.Question.Category)
		}
		for _, id := range previous {
			if id == env.Question.ID {
				t.Fatalf("question %d repeated", id)
			}
		}
		previous = append(previous, env.Question.ID)
	}

	w, env := do(t, r, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category":      map[string]any{"id": 2, "type": "Art"},
		"previous_questions": previous,
	})
	if w.Code != http.StatusOK || !env.Success || env.Question != nil {
		t.Fatalf("expected null question, status %d body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"question":null`) {
		t.Fatalf("expected explicit null, body %s", w.Body.String())
	}
}

func TestQuizAllCategoriesPinnedRandom(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	testutil.Seed(t, db)
	quiz := services.NewQuizService(db).WithRandom(func(int) int { return 0 })
	r := NewWithQuiz(testConfig(), db, quiz)

	all := testutil.QuestionIDs(t, db, 0)
	w, env := do(t, r, http.MethodPost, "/quizzes", map[string]any{
		"quiz_category":      map[string]any{"id": 0, "type": "click"},
		"previous_questions": nil,
	})
	if w.Code != http.StatusOK || env.Question == nil || env.Question.ID != all[0] {
		t.Fatalf("status %d, body %s, want question %d", w.Code, w.Body.String(), all[0])
	}
}

func TestQuizBadRequest(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodPost, "/quizzes", map[string]any{"previous_questions": []uint{1}})
	expectError(t, w, env, http.StatusBadRequest, "bad request")
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodGet, "/nope", nil)
	expectError(t, w, env, http.StatusNotFound, "resource not found")
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID on error response")
	}
}

func TestExportYAMLRoundTrips(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	seed, err := database.ParseSeed(w.Body.Bytes())
	if err != nil {
		t.Fatalf("exported yaml does not parse as seed: %v", err)
	}
	if len(seed.Categories) != 3 || len(seed.Questions) != 5 {
		t.Fatalf("exported %d categories, %d questions", len(seed.Categories), len(seed.Questions))
	}

	db := testutil.NewDB(t)
	if applied, err := seed.Apply(db); err != nil || !applied {
		t.Fatalf("re-import: applied=%v err=%v", applied, err)
	}
}

func TestExportCSV(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions/export?format=csv", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 6 || rows[0][0] != "id" {
		t.Fatalf("unexpected csv rows: %v", rows)
	}
	if rows[1][2] != "Science" {
		t.Fatalf("first row category_type = %q, want Science", rows[1][2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := do(t, r, http.MethodGet, "/questions/export?format=xml", nil)
	expectError(t, w, env, http.StatusBadRequest, "bad request")
}

func TestPanicRecoveredAsServerError(t *testing.T) {
	r, _ := newTestRouter(t)
	r.GET("/explode", func(*gin.Context) { panic("boom") })

	w, env := do(t, r, http.MethodGet, "/explode", nil)
	expectError(t, w, env, http.StatusInternalServerError, "internal server error")
}

func TestDeleteQuestionFailureIsUnprocessable(t *testing.T) {
	r, db := newTestRouter(t)
	err := db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(tx *gorm.DB) {
		tx.AddError(errors.New("database is locked"))
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	id := testutil.QuestionIDs(t, db, 1)[0]
	w, env := do(t, r, http.MethodDelete, "/questions/"+strconv.FormatUint(uint64(id), 10), nil)
	expectError(t, w, env, http.StatusUnprocessableEntity, "unprocessable")

	if ids := testutil.QuestionIDs(t, db, 1); len(ids) != 3 {
		t.Fatalf("question removed despite failure: %v", ids)
	}
}

func TestGetQuestionsAlwaysHasCategories(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	testutil.AddQuestions(t, db, 1, 2)
	r := New(testConfig(), db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := string(body["categories"]); got != "{}" {
		t.Fatalf("categories = %q, want {}", got)
	}
}

type brokenWriter struct {
	header http.Header
	status int
}

func (b *brokenWriter) Header() http.Header { return b.header }
func (b *brokenWriter) WriteHeader(status int) { b.status = status }
func (b *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestExportCSVLogsWriteFailure(t *testing.T) {
	r, _ := newTestRouter(t)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	w := &brokenWriter{header: http.Header{}}
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/questions/export?format=csv", nil))

	if !strings.Contains(logs.String(), "connection reset by peer") {
		t.Fatalf("write failure not logged, log output: %q", logs.String())
	}
}
