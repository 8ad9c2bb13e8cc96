package inmem

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-signup/core/student"
)

type studentRepository struct {
	mutex sync.RWMutex
	table map[string]*student.Student
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository() student.Repository {
	return &studentRepository{table: make(map[string]*student.Student)}
}

// query returns the students ordered by creation time. Callers hold the lock.
func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.table))
	for _, s := range repo.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].CreatedAt.Before(students[j].CreatedAt) })
	return students
}

func (repo *studentRepository) CheckUniqueness(email, phone, parentPhone string) error {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.checkUniqueness(email, phone, parentPhone)
}

// checkUniqueness scans the table. Callers hold the lock.
func (repo *studentRepository) checkUniqueness(email, phone, parentPhone string) error {
	for _, s := range repo.table {
		if email != "" && s.Email == email {
			return student.ErrEmailExists
		}
		if phone != "" && s.Phone == phone {
			return student.ErrPhoneExists
		}
		if parentPhone != "" && s.Phone == parentPhone {
			return student.ErrParentPhoneExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if err := repo.checkUniqueness(s.Email, s.Phone, s.ParentPhone); err != nil {
		return student.Student{}, err
	}
	s.ID = uuid.New().String()
	repo.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByPhone(phone string) (student.Student, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	for _, s := range repo.table {
		if s.Phone == phone {
			return *s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}
