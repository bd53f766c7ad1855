package model

import (
	"fmt"
	"time"
)

// Campus and Grade are small fixed reference lists, seeded once at startup and
// effectively immutable afterwards.
type Campus struct {
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

type Grade struct {
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

func DefaultCampuses() []Campus {
	return []Campus{
		{Name: "Subhash Nagar", Code: "SUB"},
		{Name: "Yamuna", Code: "YAM"},
		{Name: "I20", Code: "I20"},
	}
}

func DefaultGrades() []Grade {
	grades := make([]Grade, 0, 10)
	for level := 1; level <= 10; level++ {
		grades = append(grades, Grade{Name: fmt.Sprintf("%dth Class", level), Level: level})
	}
	return grades
}

// Sections is the fixed list of class sections students can belong to.
var Sections = []string{
	"LL", "HH", "DD", "FF",
	"Tata Boys", "Tata Girls",
	"Google Boys", "Google Girls",
	"Infosys Boys", "Infosys Girls",
	"Adobe", "Adobe Boys", "Adobe Girls",
	"Mahendra Boys", "Mahendra Girls",
	"Verizon Boys", "Verizon Girls",
	"Microsoft Boys", "Microsoft Girls",
}

func ValidCampus(name string) bool {
	return campusCode(name) != ""
}

func ValidGrade(name string) bool {
	for _, g := range DefaultGrades() {
		if g.Name == name {
			return true
		}
	}
	return false
}

func ValidSection(s string) bool {
	for _, sec := range Sections {
		if sec == s {
			return true
		}
	}
	return false
}

func campusCode(campus string) string {
	for _, c := range DefaultCampuses() {
		if c.Name == campus {
			return c.Code
		}
	}
	return ""
}

// FormatStudentID derives a student ID from the campus and a 1-based sequence
// number, e.g. ("Yamuna", 12) -> "YAM-012".
func FormatStudentID(campus string, sequence int) string {
	code := campusCode(campus)
	if code == "" {
		code = "STD"
	}
	return fmt.Sprintf("%s-%03d", code, sequence)
}

// FormatTeacherID is the teacher variant, e.g. ("Yamuna", 3) -> "YAM-T003".
func FormatTeacherID(campus string, sequence int) string {
	code := campusCode(campus)
	if code == "" {
		code = "TCH"
	}
	return fmt.Sprintf("%s-T%03d", code, sequence)
}
