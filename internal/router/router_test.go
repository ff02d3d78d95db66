package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/campaign-wizard/internal/config"
	"github.com/javajoker/campaign-wizard/internal/handlers"
	"github.com/javajoker/campaign-wizard/internal/i18n"
	"github.com/javajoker/campaign-wizard/internal/models"
	"github.com/javajoker/campaign-wizard/internal/services"
	"github.com/javajoker/campaign-wizard/internal/testutil"
	"github.com/javajoker/campaign-wizard/internal/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Meta    map[string]any  `json:"meta"`
	Error   *struct {
		Code    string                  `json:"code"`
		Message string                  `json:"message"`
		Details []utils.ValidationError `json:"details"`
	} `json:"error"`
}

type RouterTestSuite struct {
	suite.Suite
	db            *testutil.MemoryDB
	queue         *testutil.RecordingQueue
	user          *models.User
	engine        *gin.Engine
	uploads       string
	orgID         string
	token         string
	strangerToken string
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.db = testutil.NewMemoryDB()
	s.queue = &testutil.RecordingQueue{}
	s.orgID = "org_1"
	s.user = s.db.AddUser("user_1", s.orgID)
	s.db.AddUser("user_2", "org_2")
	s.uploads = s.T().TempDir()

	cfg := &config.Config{
		Server:    config.ServerConfig{MaxBodyBytes: 1 << 20},
		JWT:       config.JWTConfig{SecretKey: "router-test-secret"},
		Storage:   config.StorageConfig{LocalDir: s.uploads, PublicBaseURL: "http://localhost:8080", MaxUploadMB: 1},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 0, Burst: 100, UploadsPerMinute: 0},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}, MaxAgeHours: 1},
	}

	storage, err := services.NewStorageService(cfg)
	s.Require().NoError(err)

	users := services.NewUserService(s.db.Users())
	submission := services.NewSubmissionService(s.db.Drafts(), s.db.Submissions(), users, s.queue)
	wizardService := services.NewWizardService(
		s.db.Drafts(),
		s.db.History(),
		users,
		services.NewReconciler(s.db.Influencers(), s.db.Assets(), s.db.Drafts()),
		submission,
		services.NewFinalizer(s.db.Submissions()),
		s.queue,
	)

	s.engine = New(cfg, nil, Handlers{
		Campaign: handlers.NewCampaignHandler(services.NewCampaignService(s.db.Drafts(), s.db.History(), users, nil, s.queue), submission),
		Wizard:   handlers.NewWizardHandler(wizardService),
		Asset:    handlers.NewAssetHandler(services.NewAssetService(s.db.Drafts(), s.db.Assets(), users, storage, storage.CreativeAssetUploadOptions())),
		User:     handlers.NewUserHandler(users),
	})

	s.token, err = utils.GenerateJWT("user_1", s.orgID, "user_1@example.com", 1)
	s.Require().NoError(err)
	s.strangerToken, err = utils.GenerateJWT("user_2", "org_2", "user_2@example.com", 1)
	s.Require().NoError(err)
}

func (s *RouterTestSuite) do(method, path, token string, body []byte, contentType string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *RouterTestSuite) draft(mutate func(d *models.CampaignDraft)) *models.CampaignDraft {
	org := s.orgID
	d := &models.CampaignDraft{OrganizationID: &org, UserID: s.user.ID}
	if mutate != nil {
		mutate(d)
	}
	return s.db.AddDraft(d)
}

func (s *RouterTestSuite) TestHealthIsPublic() {
	w, _ := s.do(http.MethodGet, "/health", "", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"healthy"`)
}

func (s *RouterTestSuite) TestCampaignRoutesRequireToken() {
	w, env := s.do(http.MethodGet, "/v1/campaigns", "", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("UNAUTHORIZED", env.Error.Code)
}

func (s *RouterTestSuite) TestCreateThenSaveStep() {
	w, env := s.do(http.MethodPost, "/v1/campaigns", s.token, []byte(`{"name":"Spring launch"}`), "application/json")
	s.Require().Equal(http.StatusCreated, w.Code)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.NotEqual(uuid.Nil, created.ID)

	w, env = s.do(http.MethodPatch, "/v1/campaigns/"+created.ID.String()+"/wizard/1", s.token,
		[]byte(`{"brand":"Acme","step1Complete":true}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Step 1 updated", env.Message)

	var saved struct {
		Name          string `json:"name"`
		Brand         string `json:"brand"`
		CurrentStep   int    `json:"currentStep"`
		Step1Complete bool   `json:"step1Complete"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &saved))
	s.Equal("Spring launch", saved.Name)
	s.Equal("Acme", saved.Brand)
	s.Equal(1, saved.CurrentStep)
	s.True(saved.Step1Complete)
	s.Contains(s.queue.Upserts(), created.ID)
}

func (s *RouterTestSuite) TestSaveStepErrorMapping() {
	own := s.draft(nil)
	foreign := s.draft(func(d *models.CampaignDraft) {
		org := "org_2"
		d.OrganizationID = &org
	})

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"invalid step", "/v1/campaigns/" + own.ID.String() + "/wizard/9", `{}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"invalid id", "/v1/campaigns/not-a-uuid/wizard/1", `{}`, http.StatusBadRequest, "BAD_REQUEST"},
		{"malformed body", "/v1/campaigns/" + own.ID.String() + "/wizard/1", `[1,2]`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown draft", "/v1/campaigns/" + uuid.NewString() + "/wizard/1", `{}`, http.StatusNotFound, "NOT_FOUND"},
		{"other organization", "/v1/campaigns/" + foreign.ID.String() + "/wizard/1", `{}`, http.StatusForbidden, "FORBIDDEN"},
		{"schema violation", "/v1/campaigns/" + own.ID.String() + "/wizard/1", `{"website":"not a url"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			w, env := s.do(http.MethodPatch, tc.path, s.token, []byte(tc.body), "application/json")
			s.Equal(tc.status, w.Code)
			s.Require().NotNil(env.Error)
			s.Equal(tc.code, env.Error.Code)
		})
	}
}

func (s *RouterTestSuite) TestValidationDetailsNameTheField() {
	d := s.draft(nil)
	_, env := s.do(http.MethodPatch, "/v1/campaigns/"+d.ID.String()+"/wizard/1", s.token,
		[]byte(`{"website":"not a url","step1Complete":null}`), "application/json")

	s.Require().NotNil(env.Error)
	fields := make([]string, 0, len(env.Error.Details))
	for _, detail := range env.Error.Details {
		fields = append(fields, detail.Field)
	}
	s.ElementsMatch([]string{"website", "step1Complete"}, fields)
}

func (s *RouterTestSuite) TestGetStepReturnsDraft() {
	d := s.draft(func(d *models.CampaignDraft) {
		name := "Readable"
		d.Name = &name
	})

	w, env := s.do(http.MethodGet, "/v1/campaigns/"+d.ID.String()+"/wizard/2", s.token, nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"name":"Readable"`)

	w, _ = s.do(http.MethodGet, "/v1/campaigns/"+d.ID.String()+"/wizard/2", s.strangerToken, nil, "")
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *RouterTestSuite) TestSubmitCompleteDraft() {
	d := s.draft(func(d *models.CampaignDraft) {
		d.Step1Complete, d.Step2Complete, d.Step3Complete, d.Step4Complete = true, true, true, true
		d.IsComplete = true
		d.PrimaryContact = models.JSONB{
			"firstName": "Ada",
			"surname":   "Lovelace",
			"email":     "ada@example.com",
			"position":  "CMO",
		}
	})

	w, env := s.do(http.MethodPost, "/v1/campaigns/"+d.ID.String()+"/submit", s.token, nil, "")
	s.Require().Equal(http.StatusCreated, w.Code)

	var submitted struct {
		Status       string `json:"status"`
		SubmissionID *uint  `json:"submissionId"`
		Message      string `json:"message"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &submitted))
	s.Equal(string(models.CampaignStatusSubmitted), submitted.Status)
	s.NotNil(submitted.SubmissionID)
	s.Equal(i18n.KeyCampaignSubmitted, submitted.Message)

	w, env = s.do(http.MethodPost, "/v1/campaigns/"+d.ID.String()+"/submit", s.token, nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(i18n.KeyCampaignAlreadySubmitted, env.Error.Message)
}

func (s *RouterTestSuite) TestSubmitIncompleteDraft() {
	d := s.draft(nil)

	w, env := s.do(http.MethodPost, "/v1/campaigns/"+d.ID.String()+"/submit", s.token, nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(i18n.KeyCampaignIncomplete, env.Error.Message)
}

func (s *RouterTestSuite) TestUploadAsset() {
	d := s.draft(nil)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "teaser.mp4")
	s.Require().NoError(err)
	_, err = part.Write([]byte("not really a video"))
	s.Require().NoError(err)
	s.Require().NoError(form.WriteField("name", "Teaser"))
	s.Require().NoError(form.Close())

	w, env := s.do(http.MethodPost, "/v1/campaigns/"+d.ID.String()+"/assets", s.token, body.Bytes(), form.FormDataContentType())
	s.Require().Equal(http.StatusCreated, w.Code)

	var asset services.AssetDescriptor
	s.Require().NoError(json.Unmarshal(env.Data, &asset))
	s.Equal("Teaser", asset.Name)
	s.Equal("teaser.mp4", asset.FileName)
	s.Require().NotNil(asset.URL)

	key := strings.TrimPrefix(*asset.URL, "http://localhost:8080/uploads/")
	content, err := os.ReadFile(filepath.Join(s.uploads, filepath.FromSlash(key)))
	s.Require().NoError(err)
	s.Equal("not really a video", string(content))
}

func (s *RouterTestSuite) TestUploadRejectsDisallowedType() {
	d := s.draft(nil)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "notes.exe")
	s.Require().NoError(err)
	_, err = part.Write([]byte("MZ"))
	s.Require().NoError(err)
	s.Require().NoError(form.Close())

	w, env := s.do(http.MethodPost, "/v1/campaigns/"+d.ID.String()+"/assets", s.token, body.Bytes(), form.FormDataContentType())
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(i18n.KeyAssetUploadFailed, env.Error.Message)
}

func (s *RouterTestSuite) TestUserSyncAndMe() {
	token, err := utils.GenerateJWT("user_new", "org_9", "new@example.com", 1)
	s.Require().NoError(err)

	w, _ := s.do(http.MethodGet, "/v1/users/me", token, nil, "")
	s.Equal(http.StatusNotFound, w.Code)

	w, env := s.do(http.MethodPost, "/v1/users/sync", token, []byte(`{"name":"New Person"}`), "application/json")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(i18n.KeyUserSynced, env.Meta["message"])

	w, env = s.do(http.MethodGet, "/v1/users/me", token, nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(string(env.Data), `"externalId":"user_new"`)
	s.Contains(string(env.Data), `"organizationId":"org_9"`)
}

func (s *RouterTestSuite) TestListIsScopedToOrganization() {
	s.draft(nil)
	s.draft(nil)
	s.draft(func(d *models.CampaignDraft) {
		org := "org_2"
		d.OrganizationID = &org
	})

	w, env := s.do(http.MethodGet, "/v1/campaigns?page=1&limit=10", s.token, nil, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var drafts []json.RawMessage
	s.Require().NoError(json.Unmarshal(env.Data, &drafts))
	s.Len(drafts, 2)
	s.Equal("2", w.Header().Get("X-Total-Count"))
}

// streamingBody yields size bytes without holding them in memory and counts
// how many were pulled from it.
type streamingBody struct {
	size int64
	read int64
}

func (b *streamingBody) Read(p []byte) (int, error) {
	if b.read >= b.size {
		return 0, io.EOF
	}
	n := int64(len(p))
	if left := b.size - b.read; n > left {
		n = left
	}
	for i := int64(0); i < n; i++ {
		p[i] = ' '
	}
	b.read += n
	return int(n), nil
}

func (s *RouterTestSuite) sendStreaming(token string, body *streamingBody) *httptest.ResponseRecorder {
	d := s.draft(nil)
	req := httptest.NewRequest(http.MethodPatch, "/v1/campaigns/"+d.ID.String()+"/wizard/1", body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *RouterTestSuite) TestOversizedBodyIsNotBufferedWithoutToken() {
	const limit = 1 << 20
	body := &streamingBody{size: 64 << 20}

	w := s.sendStreaming("", body)

	s.Equal(http.StatusUnauthorized, w.Code)
	s.LessOrEqual(body.read, int64(limit+1))
}

func (s *RouterTestSuite) TestOversizedStepBodyIsRejected() {
	const limit = 1 << 20
	body := &streamingBody{size: 64 << 20}

	w := s.sendStreaming(s.token, body)

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.Contains(w.Body.String(), `"code":"PAYLOAD_TOO_LARGE"`)
	s.LessOrEqual(body.read, int64(limit+1))
}
