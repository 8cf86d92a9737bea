package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cerclepartages/internal/domain"
)

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	byEmail   map[string]*domain.User
	roles     map[string][]string
	createErr error
	nextID    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		roles:   make(map[string][]string),
	}
}

func (f *fakeUserRepo) add(u *domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.ErrDuplicateEmail
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) TouchLastSignIn(ctx context.Context, userID string, at time.Time) error {
	if u, ok := f.byID[userID]; ok {
		u.LastSignInAt = &at
	}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, u.Email)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.User, int, error) {
	users := []*domain.User{}
	for _, u := range f.byID {
		users = append(users, u)
	}
	return users, len(users), nil
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

func (f *fakeUserRepo) RemoveRole(ctx context.Context, userID, roleID string) error {
	return nil
}

// fakeRoleRepo implements domain.RoleRepository for tests.
type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[string][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	f := &fakeRoleRepo{
		byCode:    make(map[string]*domain.Role),
		listByUID: make(map[string][]*domain.Role),
	}
	for i, code := range []string{domain.RoleAdmin, domain.RolePresenter, domain.RoleParticipant} {
		f.byCode[code] = &domain.Role{ID: fmt.Sprintf("role-%d", i+1), Code: code}
	}
	return f
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

// fakeProfileRepo implements domain.ProfileRepository for tests.
type fakeProfileRepo struct {
	byUserID map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUserID: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	f.byUserID[p.UserID] = p
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if p, ok := f.byUserID[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) ListPresenters(ctx context.Context) ([]*domain.Profile, error) {
	out := []*domain.Profile{}
	for _, p := range f.byUserID {
		if p.IsPresenter {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, userID string) error {
	delete(f.byUserID, userID)
	return nil
}

func (f *fakeProfileRepo) SetPresenterFlag(ctx context.Context, userID string, isPresenter bool) error {
	p, ok := f.byUserID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsPresenter = isPresenter
	return nil
}

// fakeInvitationRepo implements domain.InvitationRepository for tests.
type fakeInvitationRepo struct {
	byToken map[string]*domain.Invitation
	nextID  int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byToken: make(map[string]*domain.Invitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	f.nextID++
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	inv.CreatedAt = time.Now()
	f.byToken[inv.Token] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	if inv, ok := f.byToken[token]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) Consume(ctx context.Context, token string, now time.Time) (bool, error) {
	inv, ok := f.byToken[token]
	if !ok || inv.Status != domain.InvitationStatusPending || inv.Expired(now) {
		return false, nil
	}
	inv.Status = domain.InvitationStatusUsed
	inv.UsedAt = &now
	return true, nil
}

func (f *fakeInvitationRepo) MarkExpired(ctx context.Context, id string) error {
	for _, inv := range f.byToken {
		if inv.ID == id && inv.Status == domain.InvitationStatusPending {
			inv.Status = domain.InvitationStatusExpired
		}
	}
	return nil
}

func (f *fakeInvitationRepo) Revoke(ctx context.Context, id string) error {
	for token, inv := range f.byToken {
		if inv.ID == id && inv.Status == domain.InvitationStatusPending {
			delete(f.byToken, token)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeInvitationRepo) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	out := []*domain.Invitation{}
	for _, inv := range f.byToken {
		out = append(out, inv)
	}
	return out, len(out), nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) add(e *domain.Event) { f.byID[e.ID] = e }

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.ParticipantLimit != nil {
		e.ParticipantLimit = *upd.ParticipantLimit
	}
	if upd.ImageURL != nil {
		e.ImageURL = upd.ImageURL
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, eventID, status string) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEventRepo) SetVideoURL(ctx context.Context, eventID string, url *string) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.VideoURL = url
	return nil
}

func (f *fakeEventRepo) ListByStatus(ctx context.Context, status string) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range f.byID {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListAll(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	out := []*domain.Event{}
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) ListPublishedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range f.byID {
		if e.Status == domain.EventStatusPublished && e.Date.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRegistrationRepo implements domain.RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	regs   map[string]*domain.Registration
	emails map[string]string
	nextID int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		regs:   make(map[string]*domain.Registration),
		emails: make(map[string]string),
	}
}

func (f *fakeRegistrationRepo) confirmedCount(eventID string) int {
	n := 0
	for _, r := range f.regs {
		if r.EventID == eventID && r.Status == domain.RegistrationStatusConfirmed {
			n++
		}
	}
	return n
}

func (f *fakeRegistrationRepo) CreateConfirmed(ctx context.Context, reg *domain.Registration, limit int) error {
	if limit > 0 && f.confirmedCount(reg.EventID) >= limit {
		return domain.ErrCapacityExceeded
	}
	f.nextID++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	reg.Status = domain.RegistrationStatusConfirmed
	f.regs[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) CreateWaitlisted(ctx context.Context, reg *domain.Registration) error {
	f.nextID++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	reg.Status = domain.RegistrationStatusWaitlist
	f.regs[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	for _, r := range f.regs {
		if r.EventID == eventID && r.UserID == userID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) SetStatus(ctx context.Context, id, status string) error {
	r, ok := f.regs[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeRegistrationRepo) Reconfirm(ctx context.Context, id, eventID string, limit int) error {
	r, ok := f.regs[id]
	if !ok {
		return domain.ErrNotFound
	}
	if limit > 0 && f.confirmedCount(eventID) >= limit {
		return domain.ErrCapacityExceeded
	}
	r.Status = domain.RegistrationStatusConfirmed
	return nil
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	out := []*domain.Registration{}
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID, status string) ([]*domain.RegistrationWithUser, error) {
	out := []*domain.RegistrationWithUser{}
	for _, r := range f.regs {
		if r.EventID == eventID && (status == "" || r.Status == status) {
			out = append(out, &domain.RegistrationWithUser{
				Registration: r,
				Email:        f.emails[r.UserID],
				DisplayName:  domain.DefaultDisplayName,
			})
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	return f.confirmedCount(eventID), nil
}

func (f *fakeRegistrationRepo) CancelConfirmedByEvent(ctx context.Context, eventID string) ([]string, error) {
	userIDs := []string{}
	for _, r := range f.regs {
		if r.EventID == eventID && r.Status == domain.RegistrationStatusConfirmed {
			r.Status = domain.RegistrationStatusCancelled
			userIDs = append(userIDs, r.UserID)
		}
	}
	return userIDs, nil
}

// fakePresenterRepo implements domain.EventPresenterRepository for tests.
type fakePresenterRepo struct {
	byEvent  map[string][]string
	profiles *fakeProfileRepo
}

func newFakePresenterRepo(profiles *fakeProfileRepo) *fakePresenterRepo {
	return &fakePresenterRepo{byEvent: make(map[string][]string), profiles: profiles}
}

func (f *fakePresenterRepo) Replace(ctx context.Context, eventID string, profileIDs []string) error {
	f.byEvent[eventID] = profileIDs
	return nil
}

func (f *fakePresenterRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Profile, error) {
	out := []*domain.Profile{}
	for _, id := range f.byEvent[eventID] {
		if p, ok := f.profiles.byUserID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeDocumentRepo implements domain.EventDocumentRepository for tests.
type fakeDocumentRepo struct {
	byID   map[string]*domain.EventDocument
	nextID int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{byID: make(map[string]*domain.EventDocument)}
}

func (f *fakeDocumentRepo) Create(ctx context.Context, doc *domain.EventDocument) error {
	f.nextID++
	doc.ID = fmt.Sprintf("doc-%d", f.nextID)
	doc.CreatedAt = time.Now()
	f.byID[doc.ID] = doc
	return nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*domain.EventDocument, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocumentRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventDocument, error) {
	out := []*domain.EventDocument{}
	for _, d := range f.byID {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeEmailService records sends and can fail per address.
type fakeEmailService struct {
	sent    []string
	failFor map[string]bool
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{failFor: make(map[string]bool)}
}

func (f *fakeEmailService) record(email string) error {
	if f.failFor[email] {
		return errors.New("send failed")
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeEmailService) SendAccountInvitation(ctx context.Context, data *domain.AccountInvitationEmailData) error {
	return f.record(data.Email)
}

func (f *fakeEmailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	return f.record(data.Email)
}

func (f *fakeEmailService) SendEventCancellation(ctx context.Context, data *domain.EventCancellationEmailData) error {
	return f.record(data.Email)
}

func (f *fakeEmailService) SendDateChangeNotification(ctx context.Context, data *domain.DateChangeEmailData) error {
	return f.record(data.Email)
}

func (f *fakeEmailService) SendEventReminder(ctx context.Context, data *domain.EventReminderEmailData) error {
	return f.record(data.Email)
}

func (f *fakeEmailService) SendContactEmail(ctx context.Context, data *domain.ContactEmailData) error {
	return f.record(data.FromEmail)
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}
