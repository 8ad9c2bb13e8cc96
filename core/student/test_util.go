package student

import "fmt"

// NewStudentFixture returns a registration that passes every check when evaluated in the given year.
func NewStudentFixture(year int) NewStudent {
	return NewStudent{
		Name:                 "Omar Khaled",
		Email:                "omar@test.eg",
		Phone:                "01098765432",
		EducationStage:       "secondary",
		GradeLevel:           "10",
		BirthDate:            fmt.Sprintf("%04d-09-01", year-16),
		Gender:               "male",
		GuardianName:         "Khaled Omar",
		ParentPhone:          "01198765432",
		Governorate:          "الإسكندرية",
		City:                 "سيدي جابر",
		Password:             "Secret123",
		PasswordConfirmation: "Secret123",
		Role:                 "student",
		RememberMe:           "1",
	}
}
