package services

import (
	"context"
	"database/sql"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/mailer"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/accesscontrols"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/documents"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/nominees"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/otptokens"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/triggers"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// -------- in-memory store --------

type aclKey struct{ nominee, resource string }

type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	refresh  map[string]*models.RefreshToken
	otps     []*models.OTPToken
	triggers map[string]*models.InactivityTrigger
	nominees []*models.Nominee
	acl      map[aclKey]*models.AccessControl
	docs     map[string]*models.Document
	fail     map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		refresh:  map[string]*models.RefreshToken{},
		triggers: map[string]*models.InactivityTrigger{},
		acl:      map[aclKey]*models.AccessControl{},
		docs:     map[string]*models.Document{},
		fail:     map[string]error{},
	}
}

func (s *memStore) id() string {
	return uuid.NewString()
}

// memManager vends repositories over one memStore, ignoring the DBTX.
type memManager struct{ s *memStore }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository             { return &memUsers{m.s} }
func (m *memManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &memRefresh{m.s}
}
func (m *memManager) OTPTokens(dbx.DBTX) otptokens.Repository { return &memOTP{m.s} }
func (m *memManager) Triggers(dbx.DBTX) triggers.Repository   { return &memTriggers{m.s} }
func (m *memManager) Nominees(dbx.DBTX) nominees.Repository   { return &memNominees{m.s} }
func (m *memManager) AccessControls(dbx.DBTX) accesscontrols.Repository {
	return &memACL{m.s}
}
func (m *memManager) Documents(dbx.DBTX) documents.Repository { return &memDocs{m.s} }

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["users.Create"]; err != nil {
		return nil, err
	}
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) {
			return nil, common.ErrConflict
		}
	}
	c := *u
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["users.GetByEmail"]; err != nil {
		return nil, err
	}
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, email) {
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if x, ok := r.s.users[id]; ok {
		c := *x
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) UpdatePassword(ctx context.Context, userID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	x.PasswordHash = hash
	return nil
}

type memRefresh struct{ s *memStore }

func (r *memRefresh) Create(ctx context.Context, userID string, hash []byte, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["refresh.Create"]; err != nil {
		return err
	}
	r.s.refresh[string(hash)] = &models.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: expiresAt}
	return nil
}

func (r *memRefresh) Find(ctx context.Context, hash []byte) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if x, ok := r.s.refresh[string(hash)]; ok {
		c := *x
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memRefresh) Consume(ctx context.Context, hash []byte) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["refresh.Consume"]; err != nil {
		return false, err
	}
	_, ok := r.s.refresh[string(hash)]
	delete(r.s.refresh, string(hash))
	return ok, nil
}

func (r *memRefresh) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, v := range r.s.refresh {
		if v.UserID == userID {
			delete(r.s.refresh, k)
		}
	}
	return nil
}

func (r *memRefresh) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["refresh.PurgeExpired"]; err != nil {
		return 0, err
	}
	var n int64
	for k, v := range r.s.refresh {
		if v.ExpiresAt.Before(before) {
			delete(r.s.refresh, k)
			n++
		}
	}
	return n, nil
}

type memOTP struct{ s *memStore }

func (r *memOTP) DeleteActive(ctx context.Context, email string, purpose models.OTPPurpose) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.otps[:0]
	for _, t := range r.s.otps {
		if strings.EqualFold(t.Email, email) && t.Purpose == purpose && t.UsedAt == nil {
			continue
		}
		kept = append(kept, t)
	}
	r.s.otps = kept
	return nil
}

func (r *memOTP) Create(ctx context.Context, token *models.OTPToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["otp.Create"]; err != nil {
		return err
	}
	token.ID = r.s.id()
	c := *token
	r.s.otps = append(r.s.otps, &c)
	return nil
}

func (r *memOTP) FindLatest(ctx context.Context, email string, purpose models.OTPPurpose) (*models.OTPToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *models.OTPToken
	for _, t := range r.s.otps {
		if strings.EqualFold(t.Email, email) && t.Purpose == purpose {
			if latest == nil || !t.CreatedAt.Before(latest.CreatedAt) {
				latest = t
			}
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	c := *latest
	return &c, nil
}

func (r *memOTP) find(id string) *models.OTPToken {
	for _, t := range r.s.otps {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *memOTP) MarkUsed(ctx context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := r.find(id)
	if t == nil || t.UsedAt != nil {
		return false, nil
	}
	t.UsedAt = &at
	return true, nil
}

func (r *memOTP) IncrementAttempts(ctx context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := r.find(id)
	if t == nil {
		return 0, common.ErrorNotFound
	}
	t.Attempts++
	return t.Attempts, nil
}

func (r *memOTP) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.otps[:0]
	for _, t := range r.s.otps {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.s.otps = kept
	return nil
}

func (r *memOTP) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	kept := r.s.otps[:0]
	for _, t := range r.s.otps {
		if t.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, t)
	}
	r.s.otps = kept
	return n, nil
}

type memTriggers struct{ s *memStore }

func (r *memTriggers) Upsert(ctx context.Context, t *models.InactivityTrigger) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["triggers.Upsert"]; err != nil {
		return err
	}
	granted := false
	if prev, ok := r.s.triggers[t.UserID]; ok {
		granted = prev.EmergencyAccessGranted && t.IsActive
	}
	c := *t
	c.EmergencyAccessGranted = granted
	c.UpdatedAt = t.LastActivityAt
	r.s.triggers[t.UserID] = &c
	return nil
}

func (r *memTriggers) CreateDefault(ctx context.Context, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.triggers[userID]; ok {
		return nil
	}
	r.s.triggers[userID] = &models.InactivityTrigger{
		UserID: userID, InactiveDaysThreshold: 90, Channels: models.NotificationChannels{Email: true},
		LastActivityAt: at, UpdatedAt: at,
	}
	return nil
}

func (r *memTriggers) Get(ctx context.Context, userID string) (*models.InactivityTrigger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if x, ok := r.s.triggers[userID]; ok {
		c := *x
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memTriggers) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["triggers.TouchActivity"]; err != nil {
		return err
	}
	if x, ok := r.s.triggers[userID]; ok && at.After(x.LastActivityAt) {
		x.LastActivityAt = at
	}
	return nil
}

func (r *memTriggers) ListActive(ctx context.Context) ([]*models.InactivityTrigger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["triggers.ListActive"]; err != nil {
		return nil, err
	}
	var out []*models.InactivityTrigger
	for _, x := range r.s.triggers {
		if x.IsActive {
			c := *x
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memTriggers) SetGranted(ctx context.Context, userID string, granted bool, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["triggers.SetGranted"]; err != nil {
		return false, err
	}
	x, ok := r.s.triggers[userID]
	if !ok || x.EmergencyAccessGranted == granted || (granted && !x.IsActive) {
		return false, nil
	}
	x.EmergencyAccessGranted = granted
	x.UpdatedAt = at
	return true, nil
}

type memNominees struct{ s *memStore }

func (r *memNominees) Create(ctx context.Context, n *models.Nominee) (*models.Nominee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.nominees {
		if x.UserID == n.UserID && x.DeletedAt == nil && strings.EqualFold(x.Email, n.Email) {
			return nil, common.ErrConflict
		}
	}
	c := *n
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	r.s.nominees = append(r.s.nominees, &c)
	out := c
	return &out, nil
}

func (r *memNominees) filter(keep func(*models.Nominee) bool) []*models.Nominee {
	var out []*models.Nominee
	for _, x := range r.s.nominees {
		if x.DeletedAt == nil && keep(x) {
			c := *x
			out = append(out, &c)
		}
	}
	return out
}

func (r *memNominees) ListByUser(ctx context.Context, userID string) ([]*models.Nominee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(n *models.Nominee) bool { return n.UserID == userID }), nil
}

func (r *memNominees) Get(ctx context.Context, userID, id string) (*models.Nominee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.filter(func(n *models.Nominee) bool { return n.UserID == userID && n.ID == id })
	if len(out) == 0 {
		return nil, common.ErrorNotFound
	}
	return out[0], nil
}

func (r *memNominees) FindByEmail(ctx context.Context, email string) ([]*models.Nominee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["nominees.FindByEmail"]; err != nil {
		return nil, err
	}
	return r.filter(func(n *models.Nominee) bool { return strings.EqualFold(n.Email, email) }), nil
}

func (r *memNominees) SoftDelete(ctx context.Context, userID, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.nominees {
		if x.UserID == userID && x.ID == id && x.DeletedAt == nil {
			x.DeletedAt = &at
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *memNominees) MarkVerified(ctx context.Context, token string, at time.Time) (*models.Nominee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.nominees {
		if x.VerificationToken == token && x.Status == models.NomineePending && x.DeletedAt == nil {
			x.Status = models.NomineeVerified
			x.VerifiedAt = &at
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memACL struct{ s *memStore }

func (r *memACL) Upsert(ctx context.Context, ac *models.AccessControl) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *ac
	c.CreatedAt = time.Now()
	r.s.acl[aclKey{ac.NomineeID, ac.ResourceID}] = &c
	return nil
}

func (r *memACL) Delete(ctx context.Context, nomineeID, resourceID string, rt models.ResourceType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := aclKey{nomineeID, resourceID}
	if _, ok := r.s.acl[k]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.acl, k)
	return nil
}

func (r *memACL) Get(ctx context.Context, nomineeID, resourceID string, rt models.ResourceType) (*models.AccessControl, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if x, ok := r.s.acl[aclKey{nomineeID, resourceID}]; ok {
		c := *x
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memACL) ListByNominee(ctx context.Context, nomineeID string) ([]*models.AccessControl, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.AccessControl
	for k, v := range r.s.acl {
		if k.nominee == nomineeID {
			c := *v
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out, nil
}

type memDocs struct{ s *memStore }

func (r *memDocs) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["docs.Create"]; err != nil {
		return nil, err
	}
	c := *d
	c.ID = r.s.id()
	c.UploadedAt = time.Now()
	r.s.docs[c.ID] = &c
	out := c
	return &out, nil
}

func (r *memDocs) live(id string) (*models.Document, bool) {
	x, ok := r.s.docs[id]
	if !ok || x.DeletedAt != nil {
		return nil, false
	}
	return x, true
}

func (r *memDocs) MarkUploaded(ctx context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.live(id)
	if !ok || x.UserID != userID {
		return common.ErrorNotFound
	}
	x.UploadStatus = models.UploadCompleted
	return nil
}

func (r *memDocs) ListByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Document
	for _, x := range r.s.docs {
		if x.UserID == userID && x.DeletedAt == nil {
			c := *x
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memDocs) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.live(id)
	if !ok || x.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *x
	return &c, nil
}

func (r *memDocs) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.live(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *x
	return &c, nil
}

func (r *memDocs) SoftDelete(ctx context.Context, userID, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	x, ok := r.live(id)
	if !ok || x.UserID != userID {
		return common.ErrorNotFound
	}
	x.DeletedAt = &at
	return nil
}

func (r *memDocs) ListGranted(ctx context.Context, nomineeID string) ([]models.ResolvedDocument, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail["docs.ListGranted"]; err != nil {
		return nil, err
	}
	out := []models.ResolvedDocument{}
	for k, v := range r.s.acl {
		if k.nominee != nomineeID || v.ResourceType != models.ResourceDocument {
			continue
		}
		if d, ok := r.live(k.resource); ok && d.UploadStatus == models.UploadCompleted {
			out = append(out, models.ResolvedDocument{Document: *d, AccessLevel: v.AccessLevel})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Document.FileName < out[j].Document.FileName })
	return out, nil
}

// -------- collaborators --------

type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (c *captureSender) Send(ctx context.Context, m mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

var codeRe = regexp.MustCompile(`<strong>(\d{6})</strong>`)

// lastCode returns the code in the newest message sent to addr.
func (c *captureSender) lastCode(t *testing.T, addr string) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		m := c.sent[i]
		if len(m.To) == 1 && m.To[0] == addr {
			if match := codeRe.FindStringSubmatch(m.HTML); match != nil {
				return match[1]
			}
		}
	}
	t.Fatalf("no code sent to %s", addr)
	return ""
}

type fakeSigner struct {
	err  error
	puts []ObjectRef
	gets []ObjectRef
}

func (f *fakeSigner) PutURL(ctx context.Context, obj ObjectRef, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.puts = append(f.puts, obj)
	return "https://s3.test/put/" + obj.Key + "?ttl=" + ttl.String(), nil
}

func (f *fakeSigner) GetURL(ctx context.Context, obj ObjectRef, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gets = append(f.gets, obj)
	return "https://s3.test/get/" + obj.Key + "?ttl=" + ttl.String(), nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// -------- environment --------

type testEnv struct {
	db     *sql.DB
	store  *memStore
	rm     *memManager
	mail   *captureSender
	signer *fakeSigner
	clock  *fakeClock
	cfg    *config.Config

	otp        *OTPService
	inactivity *InactivityService
	evaluator  *EvaluatorService
	access     *AccessService
	emergency  *EmergencyService
	users      *UserService
	nominees   *NomineeService
	documents  *DocumentService
}

// newTxDB returns a database that only needs to support transactions; the
// in-memory repositories never touch it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestEnvWithDB(t *testing.T, db *sql.DB) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.PublicBaseURL = "https://vault.test/"

	store := newMemStore()
	e := &testEnv{
		db:     db,
		store:  store,
		rm:     &memManager{s: store},
		mail:   &captureSender{},
		signer: &fakeSigner{},
		clock:  &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		cfg:    cfg,
	}
	log := logging.Nop{}

	e.otp = NewOTPService(db, e.rm, cfg, e.mail, log)
	e.otp.now = e.clock.Now
	e.inactivity = NewInactivityService(db, e.rm, log)
	e.inactivity.now = e.clock.Now
	e.evaluator = NewEvaluatorService(db, e.rm, e.mail, log)
	e.evaluator.now = e.clock.Now
	e.access = NewAccessService(db, e.rm)
	e.emergency = NewEmergencyService(db, e.rm, cfg, e.otp, e.access, e.signer, log)
	e.emergency.now = e.clock.Now
	e.users = NewUserService(db, e.rm, cfg, e.otp, e.inactivity, log)
	e.users.now = e.clock.Now
	e.nominees = NewNomineeService(db, e.rm, cfg, e.mail, log)
	e.nominees.now = e.clock.Now
	e.documents = NewDocumentService(db, e.rm, e.signer, log)
	e.documents.now = e.clock.Now
	return e
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, newTxDB(t))
}

// seedOwner creates an account with an active trigger.
func (e *testEnv) seedOwner(t *testing.T, email string, threshold int) *models.User {
	t.Helper()
	u, err := e.rm.Users(nil).Create(context.Background(), &models.User{Email: email, DisplayName: "Owner " + email})
	require.NoError(t, err)
	require.NoError(t, e.rm.Triggers(nil).Upsert(context.Background(), &models.InactivityTrigger{
		UserID: u.ID, IsActive: true, InactiveDaysThreshold: threshold,
		Channels: models.NotificationChannels{Email: true}, LastActivityAt: e.clock.Now(),
	}))
	return u
}

// seedNominee adds a nominee for owner, verified or pending.
func (e *testEnv) seedNominee(t *testing.T, owner *models.User, email string, verified bool) *models.Nominee {
	t.Helper()
	n, err := e.nominees.Create(context.Background(), owner.ID, NomineeInput{
		FullName: "Nominee " + email, Relation: models.RelationChild, Email: email,
	})
	require.NoError(t, err)
	if verified {
		n, err = e.nominees.Verify(context.Background(), n.VerificationToken)
		require.NoError(t, err)
	}
	return n
}

// seedDocument stores an uploaded document for owner.
func (e *testEnv) seedDocument(t *testing.T, owner *models.User, name string) *models.Document {
	t.Helper()
	d, _, err := e.documents.CreateUpload(context.Background(), owner.ID, name, "application/pdf", 100)
	require.NoError(t, err)
	require.NoError(t, e.documents.MarkUploaded(context.Background(), owner.ID, d.ID))
	return d
}

func (e *testEnv) setGranted(t *testing.T, owner *models.User, granted bool) {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.triggers[owner.ID].EmergencyAccessGranted = granted
}
