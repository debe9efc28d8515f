package verification

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/reservations-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) BeginVerification(ctx context.Context, v *domain.PhoneVerification, ttl time.Duration) error {
	return m.Called(ctx, v, ttl).Error(0)
}
func (m *mockStore) Get(ctx context.Context, phoneNumber string) (*domain.PhoneVerification, error) {
	args := m.Called(ctx, phoneNumber)
	if v, _ := args.Get(0).(*domain.PhoneVerification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) MarkVerified(ctx context.Context, phoneNumber string, verifiedUntil int64, ttl time.Duration) error {
	return m.Called(ctx, phoneNumber, verifiedUntil, ttl).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendCode(ctx context.Context, to, code string) error {
	return m.Called(ctx, to, code).Error(0)
}

// --- helpers ---

const testPhone = "+15551234567"

var testNow = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

func newTestService(st *mockStore, n *mockNotifier) *service {
	svc := NewService(st, n, 300*time.Second, 60*time.Second, 600*time.Second).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

// --- RequestCode tests ---

func TestRequestCode_StoresAndDispatchesSixDigitCode(t *testing.T) {
	st := &mockStore{}
	n := &mockNotifier{}

	var issued string
	st.On("BeginVerification", mock.Anything, mock.MatchedBy(func(v *domain.PhoneVerification) bool {
		issued = v.Code
		return v.Phone == testPhone &&
			v.State == domain.VerificationPending &&
			sixDigits.MatchString(v.Code) &&
			v.CodeExpiresAt == testNow.Add(300*time.Second).Unix() &&
			v.ResendAt == testNow.Add(60*time.Second).Unix()
	}), 300*time.Second).Return(nil)
	n.On("SendCode", mock.Anything, testPhone, mock.MatchedBy(func(code string) bool {
		return code == issued
	})).Return(nil)

	err := newTestService(st, n).RequestCode(context.Background(), testPhone)

	require.NoError(t, err)
	st.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRequestCode_Cooldown(t *testing.T) {
	st := &mockStore{}
	n := &mockNotifier{}
	st.On("BeginVerification", mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrRateLimited)

	err := newTestService(st, n).RequestCode(context.Background(), testPhone)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	n.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestCode_DispatchFailure(t *testing.T) {
	st := &mockStore{}
	n := &mockNotifier{}
	st.On("BeginVerification", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	n.On("SendCode", mock.Anything, testPhone, mock.Anything).Return(errors.New("api down"))

	err := newTestService(st, n).RequestCode(context.Background(), testPhone)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

// --- CheckCode tests ---

func pendingVerification(code string) *domain.PhoneVerification {
	return &domain.PhoneVerification{
		Phone:         testPhone,
		State:         domain.VerificationPending,
		Code:          code,
		CodeExpiresAt: testNow.Add(300 * time.Second).Unix(),
		ResendAt:      testNow.Add(60 * time.Second).Unix(),
	}
}

func TestCheckCode_NeverIssued(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, testPhone).Return(nil, domain.ErrNotFound)

	err := newTestService(st, &mockNotifier{}).CheckCode(context.Background(), testPhone, "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestCheckCode_Expired(t *testing.T) {
	st := &mockStore{}
	v := pendingVerification("123456")
	v.CodeExpiresAt = testNow.Add(-time.Second).Unix()
	st.On("Get", mock.Anything, testPhone).Return(v, nil)

	err := newTestService(st, &mockNotifier{}).CheckCode(context.Background(), testPhone, "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
	st.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckCode_ExpiredAfterSimulatedClockAdvance(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, testPhone).Return(pendingVerification("123456"), nil)

	svc := newTestService(st, &mockNotifier{})
	svc.now = func() time.Time { return testNow.Add(301 * time.Second) }
	err := svc.CheckCode(context.Background(), testPhone, "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestCheckCode_Mismatch(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, testPhone).Return(pendingVerification("123456"), nil)

	err := newTestService(st, &mockNotifier{}).CheckCode(context.Background(), testPhone, "654321")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeMismatch))
	st.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckCode_AlreadyVerifiedState(t *testing.T) {
	st := &mockStore{}
	v := pendingVerification("123456")
	v.State = domain.VerificationVerified
	v.Code = ""
	st.On("Get", mock.Anything, testPhone).Return(v, nil)

	err := newTestService(st, &mockNotifier{}).CheckCode(context.Background(), testPhone, "123456")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestCheckCode_HappyPath(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, testPhone).Return(pendingVerification("123456"), nil)
	st.On("MarkVerified", mock.Anything, testPhone,
		testNow.Add(600*time.Second).Unix(), 600*time.Second).Return(nil)

	err := newTestService(st, &mockNotifier{}).CheckCode(context.Background(), testPhone, "123456")

	require.NoError(t, err)
	st.AssertExpectations(t)
}

// --- generateCode ---

func TestGenerateCode_AlwaysSixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}
