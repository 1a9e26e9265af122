package fakeuserrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/scholarhub/portal/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

// Create inserts the user. The uniqueness check and the insert happen under
// one lock so concurrent signups for the same email cannot both succeed.
func (ur *FakeUserRepo) Create(ctx context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIds[user.Email]; ok {
		return users.DuplicateUserErr
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	stored := *user
	ur.users[stored.ID] = &stored
	ur.emailIds[stored.Email] = stored.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, users.NotFoundErr
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	u, ok := ur.users[id]
	if !ok {
		return nil, users.NotFoundErr
	}
	copied := *u
	return &copied, nil
}
