package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/directory"
)

type DirectoryRepository struct {
	db *directoryTable
}

var _ directory.Repository = (*DirectoryRepository)(nil)

func NewDirectoryRepository(db *DB) *DirectoryRepository {
	return &DirectoryRepository{db: db.directory}
}

// Seed replaces the directory contents, assigning ids where missing.
func (repo *DirectoryRepository) Seed(subjects []directory.Subject, classrooms []directory.Classroom, teachers []directory.Teacher) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range subjects {
		if subjects[i].ID == "" {
			subjects[i].ID = uuid.New().String()
		}
	}
	for i := range classrooms {
		if classrooms[i].ID == "" {
			classrooms[i].ID = uuid.New().String()
		}
	}
	for i := range teachers {
		if teachers[i].ID == "" {
			teachers[i].ID = uuid.New().String()
		}
	}
	repo.db.subjects = subjects
	repo.db.classrooms = classrooms
	repo.db.teachers = teachers
}

func (repo *DirectoryRepository) QuerySubjects(_ context.Context) ([]directory.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]directory.Subject(nil), repo.db.subjects...), nil
}

func (repo *DirectoryRepository) QueryClassrooms(_ context.Context) ([]directory.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]directory.Classroom(nil), repo.db.classrooms...), nil
}

func (repo *DirectoryRepository) QueryTeachers(_ context.Context) ([]directory.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]directory.Teacher(nil), repo.db.teachers...), nil
}

func (repo *DirectoryRepository) GetClassroomByName(_ context.Context, name string) (directory.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, room := range repo.db.classrooms {
		if room.Name == name {
			return room, nil
		}
	}
	return directory.Classroom{}, directory.ErrClassroomNotFound
}

func (repo *DirectoryRepository) GetTeacherByID(_ context.Context, id string) (directory.Teacher, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.ID == id {
			return tch, nil
		}
	}
	return directory.Teacher{}, directory.ErrTeacherNotFound
}
