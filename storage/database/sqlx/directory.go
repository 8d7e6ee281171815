package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/directory"
)

type directoryRepository struct {
	db *sqlx.DB
}

var _ directory.Repository = (*directoryRepository)(nil)

func NewDirectoryRepository(db *sql.DB) *directoryRepository {
	return &directoryRepository{db: sqlx.NewDb(db, "postgres")}
}

type subjectRow struct {
	ID   string      `db:"id"`
	Name string      `db:"name"`
	Code null.String `db:"code"`
}

type classroomRow struct {
	ID             string      `db:"id"`
	Name           string      `db:"name"`
	Grade          null.String `db:"grade"`
	ClassTeacherID null.String `db:"class_teacher_id"`
}

type teacherRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

func (repo *directoryRepository) QuerySubjects(ctx context.Context) ([]directory.Subject, error) {
	rows := make([]subjectRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM subject ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]directory.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, directory.Subject{ID: row.ID, Name: row.Name, Code: row.Code.String})
	}
	return subjects, nil
}

func (repo *directoryRepository) QueryClassrooms(ctx context.Context) ([]directory.Classroom, error) {
	rows := make([]classroomRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM classroom ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying classrooms")
	}
	classrooms := make([]directory.Classroom, 0, len(rows))
	for _, row := range rows {
		classrooms = append(classrooms, directory.Classroom{
			ID:             row.ID,
			Name:           row.Name,
			Grade:          row.Grade.String,
			ClassTeacherID: row.ClassTeacherID.String,
		})
	}
	return classrooms, nil
}

func (repo *directoryRepository) QueryTeachers(ctx context.Context) ([]directory.Teacher, error) {
	rows := make([]teacherRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM teacher ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]directory.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, directory.Teacher(row))
	}
	return teachers, nil
}

func (repo *directoryRepository) GetClassroomByName(ctx context.Context, name string) (directory.Classroom, error) {
	var row classroomRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM classroom WHERE name = $1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.Classroom{}, directory.ErrClassroomNotFound
		}
		return directory.Classroom{}, errors.Wrap(err, "getting classroom by name")
	}
	return directory.Classroom{
		ID:             row.ID,
		Name:           row.Name,
		Grade:          row.Grade.String,
		ClassTeacherID: row.ClassTeacherID.String,
	}, nil
}

func (repo *directoryRepository) GetTeacherByID(ctx context.Context, id string) (directory.Teacher, error) {
	var row teacherRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM teacher WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.Teacher{}, directory.ErrTeacherNotFound
		}
		return directory.Teacher{}, errors.Wrap(err, "getting teacher by id")
	}
	return directory.Teacher(row), nil
}
