package notification

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-allocation-backend/internal/model"
)

// mockSender records sent notifications.
type mockSender struct {
	mu   sync.Mutex
	sent []string
	code int
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sub.Endpoint)
	code := m.code
	if code == 0 {
		code = http.StatusCreated
	}
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil
}

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Room{}, &model.PushSubscription{}))
	return db
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db := newWorkerTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	roomID := uuid.New()
	wp.Dispatch(roomID)

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, roomID, job)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_NotifiesRoomSubscribers(t *testing.T) {
	db := newWorkerTestDB(t)

	room := model.Room{RoomNumber: "101", IsAvailable: true}
	require.NoError(t, db.Create(&room).Error)

	sub := model.PushSubscription{
		Endpoint: "https://example.com/push/1",
		P256DH:   "p256dh",
		Auth:     "auth",
		Rooms:    []*model.Room{&room},
	}
	require.NoError(t, db.Create(&sub).Error)

	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.notifyRoomFreed(context.Background(), room.ID)

	assert.Equal(t, []string{"https://example.com/push/1"}, sender.sent)
}

func TestWorkerPool_PrunesExpiredSubscription(t *testing.T) {
	db := newWorkerTestDB(t)

	room := model.Room{RoomNumber: "102", IsAvailable: true}
	require.NoError(t, db.Create(&room).Error)

	sub := model.PushSubscription{
		Endpoint: "https://example.com/push/expired",
		P256DH:   "p256dh",
		Auth:     "auth",
		Rooms:    []*model.Room{&room},
	}
	require.NoError(t, db.Create(&sub).Error)

	sender := &mockSender{code: http.StatusGone}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.notifyRoomFreed(context.Background(), room.ID)

	var count int64
	db.Model(&model.PushSubscription{}).Count(&count)
	assert.Equal(t, int64(0), count, "expired subscription should be deleted")
}

func TestWorkerPool_NoSubscribersIsQuiet(t *testing.T) {
	db := newWorkerTestDB(t)

	sender := &mockSender{}
	wp := NewWorkerPool(1, db, &webpush.Options{})
	wp.sender = sender

	wp.notifyRoomFreed(context.Background(), uuid.New())
	assert.Empty(t, sender.sent)
}
