package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRemoveDecrementsBothCounters(t *testing.T) {
	s, err := newSubject(1, "Math", 2, 5, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Total)
	require.Equal(t, 5, s.PerWeek)

	require.NoError(t, s.Remove(2))
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 3, s.PerWeek)
}

func TestSubjectRemoveOverTotalFails(t *testing.T) {
	s, err := newSubject(1, "Math", 2, 5, nil)
	require.NoError(t, err)

	err = s.Remove(3)
	require.ErrorIs(t, err, ErrQuotaViolation)
	assert.Equal(t, 2, s.Total, "counters must not be clamped")
	assert.Equal(t, 5, s.PerWeek)

	require.ErrorIs(t, s.Remove(-1), ErrQuotaViolation)
}

func TestSubjectRemoveOverPerWeekFails(t *testing.T) {
	s, err := newSubject(1, "Math", 3, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Total, "daily allowance is capped by weekly demand")

	s.Total = 3
	require.ErrorIs(t, s.Remove(2), ErrQuotaViolation)
}

func TestSubjectCopyIsIndependent(t *testing.T) {
	teacher := newTeacher("t-1", "Ana")
	s, err := newSubject(7, "Physics", 2, 4, teacher)
	require.NoError(t, err)
	s.Lock = &LockedPeriod{Day: 1, Start: 3, Length: 2}

	c := s.Copy()
	require.NoError(t, c.Remove(1))

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 4, s.PerWeek)
	assert.Equal(t, 1, c.Total)
	assert.Equal(t, s.ID, c.ID)
	assert.Same(t, teacher, c.Teacher)
	assert.Same(t, s.Lock, c.Lock)
}

func TestSubjectSized(t *testing.T) {
	s, err := newSubject(1, "Math", 1, 1, nil)
	require.NoError(t, err)

	sized := s.Sized(3)
	assert.Equal(t, 3, sized.Total)
	assert.Equal(t, 3, sized.PerWeek)
	assert.Equal(t, 1, s.Total)
}

func TestNewSubjectValidation(t *testing.T) {
	_, err := newSubject(1, "", 1, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidSubject)
	assert.NotErrorIs(t, err, ErrQuotaViolation)

	_, err = newSubject(1, FreeName, 1, 1, nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = newSubject(1, "Math", 0, 1, nil)
	assert.ErrorIs(t, err, ErrQuotaViolation)

	_, err = newSubject(1, "Math", 1, -1, nil)
	assert.ErrorIs(t, err, ErrQuotaViolation)
}

func TestSubjectShiftWeekly(t *testing.T) {
	s, err := newSubject(1, "Math", 2, 2, nil)
	require.NoError(t, err)

	require.NoError(t, s.shiftWeekly(-1))
	assert.Equal(t, 1, s.PerWeek)
	assert.Equal(t, 1, s.Total)

	require.ErrorIs(t, s.shiftWeekly(-2), ErrQuotaViolation)
	assert.Equal(t, 1, s.PerWeek)
}

func TestIDAllocatorIsMonotonic(t *testing.T) {
	var ids IDAllocator
	assert.Equal(t, 1, ids.Next())
	assert.Equal(t, 2, ids.Next())
	assert.Equal(t, 3, ids.Next())
}

func TestPseudoSubjects(t *testing.T) {
	brk := newBreak()
	assert.True(t, brk.IsPseudo())
	assert.Nil(t, brk.Teacher)
	assert.Equal(t, 1, brk.Total)

	free := newFree(3)
	assert.True(t, free.IsPseudo())
	assert.Equal(t, 3, free.Total)
}
