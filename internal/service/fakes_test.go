package service

import (
	"context"
	"time"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// In-memory store implementations mirroring the repository semantics,
// including the sentinel errors the Postgres layer produces.

type fakeUserStore struct {
	nextID int64
	users  map[int64]*domain.User

	// projects backs ListByProject; left nil by auth tests, which never
	// resolve memberships.
	projects *fakeProjectStore
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]*domain.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user domain.User) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrConflict
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = &user
	out := user
	return &out, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeUserStore) List(_ context.Context) ([]domain.User, error) {
	out := []domain.User{}
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *fakeUserStore) ListByProject(_ context.Context, projectID int64) ([]domain.User, error) {
	p, ok := s.projects.projects[projectID]
	if !ok {
		return []domain.User{}, nil
	}
	out := []domain.User{}
	for id := int64(1); id < s.nextID; id++ {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if p.Accessible(u.ID) {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeProjectStore struct {
	nextID   int64
	projects map[int64]*domain.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{nextID: 1, projects: map[int64]*domain.Project{}}
}

func (s *fakeProjectStore) Create(_ context.Context, project domain.Project) (*domain.Project, error) {
	project.ID = s.nextID
	s.nextID++
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	project.Members = []int64{}
	s.projects[project.ID] = &project
	out := clone(project)
	return &out, nil
}

func (s *fakeProjectStore) FindByID(_ context.Context, id int64) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := clone(*p)
	return &out, nil
}

func (s *fakeProjectStore) ListForUser(_ context.Context, userID int64) ([]domain.Project, error) {
	out := []domain.Project{}
	for id := int64(1); id < s.nextID; id++ {
		p, ok := s.projects[id]
		if !ok {
			continue
		}
		if p.Accessible(userID) {
			out = append(out, clone(*p))
		}
	}
	return out, nil
}

func (s *fakeProjectStore) Update(_ context.Context, project domain.Project) (*domain.Project, error) {
	stored, ok := s.projects[project.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored.Name = project.Name
	stored.Description = project.Description
	stored.DueDate = project.DueDate
	stored.UpdatedAt = time.Now()
	out := clone(*stored)
	return &out, nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id, ownerID int64) error {
	p, ok := s.projects[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectStore) AddMember(_ context.Context, projectID, userID int64) error {
	p, ok := s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range p.Members {
		if id == userID {
			return nil
		}
	}
	p.Members = append(p.Members, userID)
	return nil
}

func (s *fakeProjectStore) RemoveMember(_ context.Context, projectID, userID int64) error {
	p, ok := s.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, id := range p.Members {
		if id == userID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeProjectStore) RoleOf(_ context.Context, projectID, userID int64) (domain.ProjectRole, error) {
	p, ok := s.projects[projectID]
	if !ok {
		return domain.RoleNone, domain.ErrNotFound
	}
	return p.Role(userID), nil
}

func clone(p domain.Project) domain.Project {
	members := make([]int64, len(p.Members))
	copy(members, p.Members)
	p.Members = members
	return p
}

type fakeSprintStore struct {
	nextID  int64
	sprints map[int64]*domain.Sprint
}

func newFakeSprintStore() *fakeSprintStore {
	return &fakeSprintStore{nextID: 1, sprints: map[int64]*domain.Sprint{}}
}

func (s *fakeSprintStore) Create(_ context.Context, sprint domain.Sprint) (*domain.Sprint, error) {
	sprint.ID = s.nextID
	s.nextID++
	sprint.CreatedAt = time.Now()
	sprint.UpdatedAt = sprint.CreatedAt
	s.sprints[sprint.ID] = &sprint
	out := sprint
	return &out, nil
}

func (s *fakeSprintStore) FindByID(_ context.Context, id int64) (*domain.Sprint, error) {
	sp, ok := s.sprints[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *sp
	return &out, nil
}

func (s *fakeSprintStore) ListByProject(_ context.Context, projectID int64) ([]domain.Sprint, error) {
	out := []domain.Sprint{}
	for id := int64(1); id < s.nextID; id++ {
		if sp, ok := s.sprints[id]; ok && sp.ProjectID == projectID {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (s *fakeSprintStore) Update(_ context.Context, sprint domain.Sprint) (*domain.Sprint, error) {
	stored, ok := s.sprints[sprint.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored.Name = sprint.Name
	stored.StartDate = sprint.StartDate
	stored.EndDate = sprint.EndDate
	stored.UpdatedAt = time.Now()
	out := *stored
	return &out, nil
}

func (s *fakeSprintStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.sprints[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sprints, id)
	return nil
}

type fakeFeatureStore struct {
	nextID   int64
	features map[int64]*domain.Feature
	sprints  *fakeSprintStore
}

func newFakeFeatureStore(sprints *fakeSprintStore) *fakeFeatureStore {
	return &fakeFeatureStore{nextID: 1, features: map[int64]*domain.Feature{}, sprints: sprints}
}

func (s *fakeFeatureStore) checkSprint(sprintID, projectID int64) error {
	sp, ok := s.sprints.sprints[sprintID]
	if !ok {
		return &domain.ValidationError{Field: "sprint_id", Message: "sprint not found"}
	}
	if sp.ProjectID != projectID {
		return &domain.ValidationError{Field: "sprint_id", Message: "sprint belongs to a different project"}
	}
	return nil
}

func (s *fakeFeatureStore) Create(_ context.Context, feature domain.Feature) (*domain.Feature, error) {
	if feature.SprintID != nil {
		if err := s.checkSprint(*feature.SprintID, feature.ProjectID); err != nil {
			return nil, err
		}
	}
	feature.ID = s.nextID
	s.nextID++
	feature.CreatedAt = time.Now()
	feature.UpdatedAt = feature.CreatedAt
	feature.Tasks = []domain.Task{}
	s.features[feature.ID] = &feature
	out := feature
	return &out, nil
}

func (s *fakeFeatureStore) FindByID(_ context.Context, id int64) (*domain.Feature, error) {
	f, ok := s.features[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *f
	return &out, nil
}

func (s *fakeFeatureStore) ListByProject(_ context.Context, projectID int64) ([]domain.Feature, error) {
	out := []domain.Feature{}
	for id := int64(1); id < s.nextID; id++ {
		if f, ok := s.features[id]; ok && f.ProjectID == projectID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *fakeFeatureStore) Update(_ context.Context, feature domain.Feature) (*domain.Feature, error) {
	stored, ok := s.features[feature.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if feature.SprintID != nil {
		if err := s.checkSprint(*feature.SprintID, stored.ProjectID); err != nil {
			return nil, err
		}
	}
	stored.Name = feature.Name
	stored.Description = feature.Description
	stored.Status = feature.Status
	stored.Priority = feature.Priority
	stored.SprintID = feature.SprintID
	stored.UpdatedAt = time.Now()
	out := *stored
	return &out, nil
}

func (s *fakeFeatureStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.features[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.features, id)
	return nil
}

type fakeTaskStore struct {
	nextID   int64
	tasks    map[int64]*domain.Task
	features *fakeFeatureStore
	projects *fakeProjectStore
}

func newFakeTaskStore(features *fakeFeatureStore, projects *fakeProjectStore) *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, tasks: map[int64]*domain.Task{}, features: features, projects: projects}
}

func (s *fakeTaskStore) Create(_ context.Context, task domain.Task) (*domain.Task, error) {
	task.ID = s.nextID
	s.nextID++
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	s.tasks[task.ID] = &task
	out := task
	return &out, nil
}

func (s *fakeTaskStore) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (s *fakeTaskStore) ListByFeature(_ context.Context, featureID int64) ([]domain.Task, error) {
	out := []domain.Task{}
	for id := int64(1); id < s.nextID; id++ {
		if t, ok := s.tasks[id]; ok && t.FeatureID == featureID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) ListAssigned(_ context.Context, userID int64) ([]domain.Task, error) {
	out := []domain.Task{}
	for id := int64(1); id < s.nextID; id++ {
		if t, ok := s.tasks[id]; ok && t.AssignedTo != nil && *t.AssignedTo == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) ListAccessible(_ context.Context, userID int64) ([]domain.Task, error) {
	out := []domain.Task{}
	for id := int64(1); id < s.nextID; id++ {
		t, ok := s.tasks[id]
		if !ok {
			continue
		}
		f, ok := s.features.features[t.FeatureID]
		if !ok {
			continue
		}
		p, ok := s.projects.projects[f.ProjectID]
		if !ok {
			continue
		}
		if p.Accessible(userID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) Update(_ context.Context, task domain.Task) (*domain.Task, error) {
	stored, ok := s.tasks[task.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored.Name = task.Name
	stored.Description = task.Description
	stored.Status = task.Status
	stored.Priority = task.Priority
	stored.AssignedTo = task.AssignedTo
	stored.StartDate = task.StartDate
	stored.DueDate = task.DueDate
	stored.UpdatedAt = time.Now()
	out := *stored
	return &out, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// env bundles the fakes plus services wired the way cmd/server does it.
type env struct {
	users    *fakeUserStore
	projects *fakeProjectStore
	sprints  *fakeSprintStore
	features *fakeFeatureStore
	tasks    *fakeTaskStore

	projectSvc *ProjectService
	sprintSvc  *SprintService
	featureSvc *FeatureService
	taskSvc    *TaskService
	userSvc    *UserService
}

func newEnv() *env {
	users := newFakeUserStore()
	projects := newFakeProjectStore()
	users.projects = projects
	sprints := newFakeSprintStore()
	features := newFakeFeatureStore(sprints)
	tasks := newFakeTaskStore(features, projects)
	authz := NewAuthorizer(projects)

	return &env{
		users:      users,
		projects:   projects,
		sprints:    sprints,
		features:   features,
		tasks:      tasks,
		projectSvc: NewProjectService(projects, users, authz),
		sprintSvc:  NewSprintService(sprints, authz),
		featureSvc: NewFeatureService(features, authz),
		taskSvc:    NewTaskService(tasks, features, authz),
		userSvc:    NewUserService(users, authz),
	}
}

func (e *env) addUser(username string) *domain.User {
	u, err := e.users.Create(context.Background(), domain.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
		LastName:  "Test",
	})
	if err != nil {
		panic(err)
	}
	return u
}

func (e *env) addProject(ownerID int64, name string) *domain.Project {
	p, err := e.projects.Create(context.Background(), domain.Project{
		Name:        name,
		Description: "a project used in tests",
		OwnerID:     ownerID,
		DueDate:     time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		panic(err)
	}
	return p
}
