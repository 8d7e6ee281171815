package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type subjectFixture struct {
	Name string
	Code string
}

type classroomFixture struct {
	Name    string
	Grade   string
	Teacher string // teacher fixture name
}

type teacherFixture struct {
	Name  string
	Email string
}

var (
	subjectFixtures = []subjectFixture{
		{Name: "Mathematics", Code: "MATH"},
		{Name: "English", Code: "ENG"},
		{Name: "Kiswahili", Code: "KIS"},
		{Name: "Science", Code: "SCI"},
		{Name: "Social Studies", Code: "SST"},
		{Name: "Religious Education", Code: "RE"},
		{Name: "Physical Education", Code: "PE"},
		{Name: "Creative Arts", Code: "ART"},
	}
	teacherFixtures = []teacherFixture{
		{Name: "Alice Wanjiru", Email: "alice.wanjiru@darasa.app"},
		{Name: "Benjamin Odhiambo", Email: "benjamin.odhiambo@darasa.app"},
		{Name: "Cynthia Mwangi", Email: "cynthia.mwangi@darasa.app"},
		{Name: "David Kiprop", Email: "david.kiprop@darasa.app"},
	}
	classroomFixtures = []classroomFixture{
		{Name: "Grade 4 East", Grade: "4", Teacher: "Alice Wanjiru"},
		{Name: "Grade 4 West", Grade: "4", Teacher: "Benjamin Odhiambo"},
		{Name: "Grade 5 East", Grade: "5", Teacher: "Cynthia Mwangi"},
		{Name: "Grade 5 West", Grade: "5", Teacher: "David Kiprop"},
	}
)

// seed loads the directory fixtures. re-running it is a no-op for rows
// that already exist.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	db := sqlx.NewDb(cli.db, "postgres")

	for _, sub := range subjectFixtures {
		_, err := db.ExecContext(
			ctx,
			`INSERT INTO subject (id, name, code) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			uuid.New().String(), sub.Name, sub.Code,
		)
		if err != nil {
			return fmt.Errorf("seeding subject %q: %w", sub.Name, err)
		}
	}

	teacherIDs := make(map[string]string, len(teacherFixtures))
	for _, tch := range teacherFixtures {
		id := uuid.New().String()
		_, err := db.ExecContext(
			ctx,
			`INSERT INTO teacher (id, name, email) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
			id, tch.Name, tch.Email,
		)
		if err != nil {
			return fmt.Errorf("seeding teacher %q: %w", tch.Name, err)
		}
		// the insert may have been a no-op; read back the winning row's id
		if err = db.GetContext(ctx, &id, `SELECT id FROM teacher WHERE email = $1`, tch.Email); err != nil {
			return fmt.Errorf("fetching teacher %q: %w", tch.Name, err)
		}
		teacherIDs[tch.Name] = id
	}

	for _, cls := range classroomFixtures {
		_, err := db.ExecContext(
			ctx,
			`INSERT INTO classroom (id, name, grade, class_teacher_id) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`,
			uuid.New().String(), cls.Name, cls.Grade, teacherIDs[cls.Teacher],
		)
		if err != nil {
			return fmt.Errorf("seeding classroom %q: %w", cls.Name, err)
		}
	}

	fmt.Printf("seeded %d subjects, %d teachers, %d classrooms\n",
		len(subjectFixtures), len(teacherFixtures), len(classroomFixtures))
	return nil
}
