package eightball

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfranzen/eightball/pkg/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	engine := storage.NewEngine(storage.WithTransactionSave(false))
	t.Cleanup(func() { _ = engine.Close() })
	return NewService(engine)
}

func TestService_CreateAccount(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID())
	assert.Equal(t, "a@example.com", user["email"])

	_, err = svc.CreateAccount("a@example.com")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestService_CreateAccountConcurrent(t *testing.T) {
	engine := storage.NewEngine(storage.WithTransactionSave(false))
	t.Cleanup(func() { _ = engine.Close() })
	svc := NewService(engine)

	const attempts = 16
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateAccount("a@example.com")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrAccountExists)
		}
	}
	assert.Equal(t, 1, created)

	users, err := engine.FindAll(UsersCollection, map[string]interface{}{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestService_ConcurrentReadsCreateOneBall(t *testing.T) {
	engine := storage.NewEngine(storage.WithTransactionSave(false))
	t.Cleanup(func() { _ = engine.Close() })
	svc := NewService(engine)

	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Answers("a@example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balls, err := engine.FindAll(BallsCollection, nil)
	require.NoError(t, err)
	assert.Len(t, balls, 1)
}

func TestService_AnswersCreatesBallWithDefaults(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	answers, err := svc.Answers("a@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"Yes, definitely.", "It is decidedly so.", "You may rely on it."}, answers[CategoryYes])
	assert.Equal(t, []string{"Signs point to no.", "Don't count on it.", "Definitely not."}, answers[CategoryNo])
	assert.Equal(t, []string{"Maybe?", "Try again.", "Ask again later."}, answers[CategoryUnknown])
}

func TestService_AnswersNoAccount(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Answers("nobody@example.com")
	assert.ErrorIs(t, err, ErrNoAccount)

	_, err = svc.RandomAnswer("nobody@example.com", "")
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestService_RandomAnswer(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	answer, err := svc.RandomAnswer("a@example.com", CategoryYes)
	require.NoError(t, err)
	assert.Contains(t, []string{"Yes, definitely.", "It is decidedly so.", "You may rely on it."}, answer)

	_, err = svc.RandomAnswer("a@example.com", "maybe")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestService_RandomAnswerEmptyCategoryUsesLabel(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	// A ball created through AddPhrases starts empty
	_, err = svc.AddPhrases("a@example.com", map[string][]string{CategoryYes: {"Sure thing."}})
	require.NoError(t, err)

	answer, err := svc.RandomAnswer("a@example.com", CategoryNo)
	require.NoError(t, err)
	assert.Equal(t, "No", answer)

	answer, err = svc.RandomAnswer("a@example.com", CategoryYes)
	require.NoError(t, err)
	assert.Equal(t, "Sure thing.", answer)
}

func TestService_AddPhrasesSkipsDuplicates(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	added, err := svc.AddPhrases("a@example.com", map[string][]string{
		CategoryYes: {"Sure thing.", "Sure thing.", "Go for it."},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sure thing.", "Go for it."}, added[CategoryYes])

	// Adding the same phrases again adds nothing
	added, err = svc.AddPhrases("a@example.com", map[string][]string{
		CategoryYes: {"Sure thing.", "Absolutely."},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Absolutely."}, added[CategoryYes])

	answers, err := svc.Answers("a@example.com", CategoryYes)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sure thing.", "Go for it.", "Absolutely."}, answers[CategoryYes])
}

func TestService_AddPhrasesUnknownCategory(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	_, err = svc.AddPhrases("a@example.com", map[string][]string{"maybe": {"x"}})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestService_ClearCategory(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	// No ball yet
	assert.ErrorIs(t, svc.ClearCategory("a@example.com", CategoryYes), ErrNoAccount)

	_, err = svc.Answers("a@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ClearCategory("a@example.com", CategoryYes))

	answers, err := svc.Answers("a@example.com")
	require.NoError(t, err)
	assert.Empty(t, answers[CategoryYes])
	assert.NotEmpty(t, answers[CategoryNo])

	assert.ErrorIs(t, svc.ClearCategory("a@example.com", "maybe"), ErrUnknownCategory)
}

func TestService_DeleteBall(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateAccount("a@example.com")
	require.NoError(t, err)

	// Deleting before a ball exists is a no-op
	require.NoError(t, svc.DeleteBall("a@example.com"))

	_, err = svc.AddPhrases("a@example.com", map[string][]string{CategoryYes: {"Sure thing."}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBall("a@example.com"))

	// The next read creates a fresh ball with defaults
	answers, err := svc.Answers("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"Yes, definitely.", "It is decidedly so.", "You may rely on it."}, answers[CategoryYes])

	assert.ErrorIs(t, svc.DeleteBall("nobody@example.com"), ErrNoAccount)
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, ValidCategory("yes"))
	assert.True(t, ValidCategory("no"))
	assert.True(t, ValidCategory("unknown"))
	assert.False(t, ValidCategory("maybe"))
	assert.False(t, ValidCategory(""))

	assert.Equal(t, "Yes", CategoryLabel("yes"))
	assert.Equal(t, "Unknown", CategoryLabel("unknown"))
}
