package registration

import "github.com/trezcool/masomo-signup/core"

// StepFields maps the fields of a step to the backend's vocabulary for remote verification.
// Steps without remotely checkable fields map to nil.
func StepFields(step Step, d Draft) map[string]string {
	switch step {
	case StepPersonal:
		return map[string]string{
			"name":  core.CleanString(d.FullName),
			"email": core.CleanString(d.Email),
			"phone": d.Phone,
		}
	case StepAcademic:
		return map[string]string{
			"education_stage": StageCode(d.EducationStage),
			"grade_level":     GradeCode(d.GradeLevel),
			"birth_date":      d.BirthDate,
			"gender":          GenderCode(d.Gender),
		}
	case StepGuardian:
		return map[string]string{
			"guardian_name": d.GuardianName,
			"parent_phone":  d.GuardianPhone,
		}
	default:
		return nil
	}
}
