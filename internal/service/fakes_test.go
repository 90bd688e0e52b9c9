package service

import (
	"errors"
	"time"

	"go-media-review/internal/domain"
)

type fakeUserRepo struct {
	users   map[string]*domain.User // keyed by ID
	deleted map[string]*domain.User // 软删行：finder 看不见，占用判定看得见
	create  func(*domain.User) error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*domain.User{}, deleted: map[string]*domain.User{}}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(u *domain.User) error {
	if r.create != nil {
		return r.create(u)
	}
	for _, m := range []map[string]*domain.User{r.users, r.deleted} {
		for _, e := range m {
			if e.Username == u.Username || e.Email == u.Email {
				return errors.New("UNIQUE constraint failed: duplicate key")
			}
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(pred func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByUsername(username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByPair(username, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username && u.Email == email })
}

func (r *fakeUserRepo) UsernameTaken(username, excludeID string) (bool, error) {
	return r.taken(func(u *domain.User) bool { return u.Username == username }, excludeID), nil
}

func (r *fakeUserRepo) EmailTaken(email, excludeID string) (bool, error) {
	return r.taken(func(u *domain.User) bool { return u.Email == email }, excludeID), nil
}

func (r *fakeUserRepo) taken(pred func(*domain.User) bool, excludeID string) bool {
	for _, m := range []map[string]*domain.User{r.users, r.deleted} {
		for _, u := range m {
			if u.ID != excludeID && pred(u) {
				return true
			}
		}
	}
	return false
}

func (r *fakeUserRepo) List(string, int, int) ([]domain.User, int64, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DeleteByUsername(username string) error {
	for id, u := range r.users {
		if u.Username == username {
			r.deleted[id] = u
			delete(r.users, id)
		}
	}
	return nil
}

type fakeOtpRepo struct {
	rows map[string]*domain.OtpCode
}

func newFakeOtpRepo() *fakeOtpRepo { return &fakeOtpRepo{rows: map[string]*domain.OtpCode{}} }

func (r *fakeOtpRepo) FindLive(email string, now time.Time) (*domain.OtpCode, error) {
	o, ok := r.rows[email]
	if !ok || !o.Live(now) {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOtpRepo) Upsert(o *domain.OtpCode) error {
	cp := *o
	r.rows[o.Email] = &cp
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	fail error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
