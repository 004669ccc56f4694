package actors

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"moodmap/internal/models"
	"moodmap/internal/utils"
)

// fakeStore is an in-memory StoreAdapter for actor tests. It mirrors the
// real store's contract: IDs are assigned on save, comment submission
// maintains the parent's counters, and thread queries come back newest
// first. All methods are safe for concurrent use because actor fetches run
// off the actor goroutine.
type fakeStore struct {
	mu       sync.Mutex
	nextID   int
	users    map[string]*models.User
	records  map[string]*models.MoodRecord
	comments map[string]*models.CommentNode
	follows  map[string]*models.FollowRequest

	failNextFetch error
	fetchStarted  int
	fetchGates    []chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*models.User),
		records:  make(map[string]*models.MoodRecord),
		comments: make(map[string]*models.CommentNode),
		follows:  make(map[string]*models.FollowRequest),
	}
}

func (f *fakeStore) newID() string {
	f.nextID++
	return fmt.Sprintf("id-%04d", f.nextID)
}

// gateFetches makes the next n list fetches block, each on its own channel
// in call order, after their result has been snapshotted. Closing a channel
// lets that fetch return, so a test can deliver responses out of order.
func (f *fakeStore) gateFetches(n int) []chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchStarted = 0
	f.fetchGates = make([]chan struct{}, n)
	for i := range f.fetchGates {
		f.fetchGates[i] = make(chan struct{})
	}
	return f.fetchGates
}

func (f *fakeStore) fetchesStarted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchStarted
}

// nextGateLocked assigns the calling fetch its gate, if one is armed.
// Callers must hold f.mu and wait on the gate only after releasing it.
func (f *fakeStore) nextGateLocked() chan struct{} {
	idx := f.fetchStarted
	f.fetchStarted++
	if idx < len(f.fetchGates) {
		return f.fetchGates[idx]
	}
	return nil
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }

func (f *fakeStore) SaveUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[user.Username]; exists {
		return utils.NewAppError(utils.ErrUserAlreadyExists, "Username already taken: "+user.Username, nil)
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, utils.NewUserNotFoundError(username)
	}
	return user, nil
}

func (f *fakeStore) SaveRecord(ctx context.Context, record *models.MoodRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record.ID = f.newID()
	f.records[record.ID] = record
	return nil
}

func (f *fakeStore) UpdateRecord(ctx context.Context, record *models.MoodRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return utils.NewRecordNotFoundError(record.ID)
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeStore) GetRecord(ctx context.Context, recordID string) (*models.MoodRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[recordID]
	if !ok {
		return nil, utils.NewRecordNotFoundError(recordID)
	}
	return record, nil
}

func (f *fakeStore) GetRecordsByAuthor(ctx context.Context, author string) ([]*models.MoodRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.MoodRecord, 0)
	for _, rec := range f.records {
		if rec.Author == author {
			out = append(out, rec)
		}
	}
	sortRecordsNewestFirst(out)
	return out, nil
}

func (f *fakeStore) GetPublicRecordsByAuthors(ctx context.Context, authors []string) ([]*models.MoodRecord, error) {
	f.mu.Lock()
	if f.failNextFetch != nil {
		err := f.failNextFetch
		f.failNextFetch = nil
		f.mu.Unlock()
		return nil, err
	}
	allowed := make(map[string]bool, len(authors))
	for _, a := range authors {
		allowed[a] = true
	}
	out := make([]*models.MoodRecord, 0)
	for _, rec := range f.records {
		if allowed[rec.Author] && rec.Visibility == models.VisibilityPublic {
			out = append(out, rec)
		}
	}
	sortRecordsNewestFirst(out)
	gate := f.nextGateLocked()
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return out, nil
}

func (f *fakeStore) SearchPublicRecords(ctx context.Context, searchTerm string) ([]*models.MoodRecord, error) {
	return nil, nil
}

func (f *fakeStore) RemoveRecord(ctx context.Context, author string, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[recordID]
	if !ok || record.Author != author {
		return utils.NewRecordNotFoundError(recordID)
	}
	delete(f.records, recordID)
	for id, node := range f.comments {
		if node.RootRecordID == recordID {
			delete(f.comments, id)
		}
	}
	return nil
}

func (f *fakeStore) SubmitComment(ctx context.Context, node *models.CommentNode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	node.ID = f.newID()
	f.comments[node.ID] = node
	if node.IsTopLevel() {
		if record, ok := f.records[node.ParentRecordID]; ok {
			record.TopLevelCommentCount++
		}
	} else if parent, ok := f.comments[node.ParentCommentID]; ok {
		parent.SubReplyCount++
	}
	return nil
}

func (f *fakeStore) RemoveComment(ctx context.Context, commentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[commentID]; !ok {
		return utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	delete(f.comments, commentID)
	return nil
}

func (f *fakeStore) GetComment(ctx context.Context, commentID string) (*models.CommentNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	node, ok := f.comments[commentID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrCommentNotFound, "Comment not found: "+commentID, nil)
	}
	return node, nil
}

func (f *fakeStore) TopLevelComments(ctx context.Context, recordID string) ([]*models.CommentNode, error) {
	f.mu.Lock()
	out := make([]*models.CommentNode, 0)
	for _, node := range f.comments {
		if node.ParentRecordID == recordID {
			out = append(out, node)
		}
	}
	sortCommentsNewestFirst(out)
	gate := f.nextGateLocked()
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return out, nil
}

func (f *fakeStore) SubReplies(ctx context.Context, commentID string) ([]*models.CommentNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.CommentNode, 0)
	for _, node := range f.comments {
		if node.ParentCommentID == commentID {
			out = append(out, node)
		}
	}
	sortCommentsNewestFirst(out)
	return out, nil
}

func (f *fakeStore) SaveFollowRequest(ctx context.Context, req *models.FollowRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.follows {
		if existing.Follower == req.Follower && existing.Target == req.Target &&
			existing.Status != models.FollowDeclined {
			return utils.NewAppError(utils.ErrFollowRequestExists, "Follow request already exists", nil)
		}
	}
	req.ID = f.newID()
	f.follows[req.ID] = req
	return nil
}

func (f *fakeStore) GetFollowRequest(ctx context.Context, requestID string) (*models.FollowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.follows[requestID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrFollowNotFound, "Follow request not found: "+requestID, nil)
	}
	return req, nil
}

func (f *fakeStore) UpdateFollowStatus(ctx context.Context, requestID string, status models.FollowStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.follows[requestID]
	if !ok {
		return utils.NewAppError(utils.ErrFollowNotFound, "Follow request not found: "+requestID, nil)
	}
	req.Status = status
	return nil
}

func (f *fakeStore) PendingFollowRequests(ctx context.Context, target string) ([]*models.FollowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.FollowRequest, 0)
	for _, req := range f.follows {
		if req.Target == target && req.Status == models.FollowPending {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) Following(ctx context.Context, follower string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0)
	for _, req := range f.follows {
		if req.Follower == follower && req.Status == models.FollowAccepted {
			out = append(out, req.Target)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeStore) Followers(ctx context.Context, target string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0)
	for _, req := range f.follows {
		if req.Target == target && req.Status == models.FollowAccepted {
			out = append(out, req.Follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

func sortRecordsNewestFirst(records []*models.MoodRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}

func sortCommentsNewestFirst(nodes []*models.CommentNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].PostedAt.After(nodes[j].PostedAt)
	})
}
