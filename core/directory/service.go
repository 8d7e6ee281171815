package directory

import (
	"context"
	"errors"
)

var (
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrTeacherNotFound   = errors.New("teacher not found")
)

type (
	Repository interface {
		QuerySubjects(ctx context.Context) ([]Subject, error)
		QueryClassrooms(ctx context.Context) ([]Classroom, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetClassroomByName(ctx context.Context, name string) (Classroom, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
	}

	ServiceInterface interface {
		QuerySubjects(ctx context.Context) ([]Subject, error)
		QueryClassrooms(ctx context.Context) ([]Classroom, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetClassroomByName(ctx context.Context, name string) (Classroom, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *service) QueryClassrooms(ctx context.Context) ([]Classroom, error) {
	return svc.repo.QueryClassrooms(ctx)
}

func (svc *service) QueryTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *service) GetClassroomByName(ctx context.Context, name string) (Classroom, error) {
	return svc.repo.GetClassroomByName(ctx, name)
}

func (svc *service) GetTeacherByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}
