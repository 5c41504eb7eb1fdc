package services

import (
	"strings"
	"testing"

	"ufmarketplace_go/models"
	"ufmarketplace_go/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newNotificationService(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewNotificationService(db), db
}

func seedNotifications(t *testing.T, ns *NotificationService, userID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, ns.Create(userID, models.NotificationNewMessage,
			"New Message", "You have a new message", "/chat/1"))
	}
}

func TestUnreadCountArithmetic(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	seedNotifications(t, ns, user.ID, 3)

	count, err := ns.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	all, err := ns.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, ns.MarkRead(user.ID, all[0].ID))
	count, err = ns.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Marking the same one again changes nothing.
	require.NoError(t, ns.MarkRead(user.ID, all[0].ID))
	count, err = ns.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestMarkAllRead(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	seedNotifications(t, ns, user.ID, 4)
	require.NoError(t, ns.MarkAllRead(user.ID))

	count, err := ns.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	all, err := ns.List(user.ID, false)
	require.NoError(t, err)
	for _, n := range all {
		assert.True(t, n.IsRead)
		assert.NotNil(t, n.ReadAt)
	}
}

func TestMarkAllReadWithEmptyLedger(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	require.NoError(t, ns.MarkAllRead(user.ID))

	count, err := ns.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestListUnreadOnlyFilter(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	seedNotifications(t, ns, user.ID, 3)
	all, err := ns.List(user.ID, false)
	require.NoError(t, err)
	require.NoError(t, ns.MarkRead(user.ID, all[0].ID))

	unread, err := ns.List(user.ID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)
	for _, n := range unread {
		assert.False(t, n.IsRead)
	}
}

func TestCreateTruncatesOversizedBody(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	long := strings.Repeat("x", 1000)
	require.NoError(t, ns.Create(user.ID, models.NotificationNewMessage,
		"New Message", long, "/chat/1"))

	all, err := ns.List(user.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Message, 255)
}

func TestNotificationsAreOwnerScoped(t *testing.T) {
	ns, db := newNotificationService(t)
	owner := createTestUser(t, db, "owner@ufl.edu", false)
	intruder := createTestUser(t, db, "intruder@ufl.edu", false)

	seedNotifications(t, ns, owner.ID, 1)
	all, err := ns.List(owner.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)

	requireKind(t, ns.MarkRead(intruder.ID, all[0].ID), utils.KindForbidden)
	requireKind(t, ns.Delete(intruder.ID, all[0].ID), utils.KindForbidden)

	// The intruder's list never shows someone else's entries.
	theirs, err := ns.List(intruder.ID, false)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestMarkReadMissingNotification(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	requireKind(t, ns.MarkRead(user.ID, 4242), utils.KindNotFound)
}

func TestDeleteReducesLedgerAndCount(t *testing.T) {
	ns, db := newNotificationService(t)
	user := createTestUser(t, db, "user@ufl.edu", false)

	seedNotifications(t, ns, user.ID, 2)
	all, err := ns.List(user.ID, false)
	require.NoError(t, err)

	require.NoError(t, ns.Delete(user.ID, all[0].ID))

	remaining, err := ns.List(user.ID, false)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	count, err := ns.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
