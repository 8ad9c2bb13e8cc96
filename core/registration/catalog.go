package registration

import "sort"

// Education stages, as expected by the backend.
const (
	StagePrimary   = "primary"
	StagePrep      = "prep"
	StageSecondary = "secondary"
)

// Genders, as expected by the backend.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type (
	Option struct {
		Label string
		Value string
	}

	Grade struct {
		Label string
		Code  string
		Stage string
	}
)

var (
	Stages = []Option{
		{Label: "المرحلة الابتدائية", Value: StagePrimary},
		{Label: "المرحلة الإعدادية", Value: StagePrep},
		{Label: "المرحلة الثانوية", Value: StageSecondary},
	}

	Genders = []Option{
		{Label: "ذكر", Value: GenderMale},
		{Label: "أنثى", Value: GenderFemale},
	}

	Grades = []Grade{
		{Label: "الصف الرابع", Code: "4", Stage: StagePrimary},
		{Label: "الصف الخامس", Code: "5", Stage: StagePrimary},
		{Label: "الصف السادس", Code: "6", Stage: StagePrimary},
		{Label: "الصف الأول الإعدادي", Code: "7", Stage: StagePrep},
		{Label: "الصف الثاني الإعدادي", Code: "8", Stage: StagePrep},
		{Label: "الصف الثالث الإعدادي", Code: "9", Stage: StagePrep},
		{Label: "الصف الأول الثانوي", Code: "10", Stage: StageSecondary},
		{Label: "الصف الثاني الثانوي", Code: "11", Stage: StageSecondary},
		{Label: "الصف الثالث الثانوي", Code: "12", Stage: StageSecondary},
	}

	// governorate -> cities
	governorates = map[string][]string{
		"القاهرة":       {"مدينة نصر", "مصر الجديدة", "المعادي", "حلوان", "شبرا"},
		"الجيزة":        {"الدقي", "الهرم", "فيصل", "6 أكتوبر", "الشيخ زايد"},
		"الإسكندرية":    {"سيدي جابر", "المنتزه", "العجمي", "محرم بك"},
		"القليوبية":     {"بنها", "شبرا الخيمة", "قليوب"},
		"الدقهلية":      {"المنصورة", "طلخا", "ميت غمر"},
		"الشرقية":       {"الزقازيق", "العاشر من رمضان", "بلبيس"},
		"الغربية":       {"طنطا", "المحلة الكبرى", "كفر الزيات"},
		"المنوفية":      {"شبين الكوم", "منوف", "مدينة السادات"},
		"البحيرة":       {"دمنهور", "كفر الدوار", "رشيد"},
		"كفر الشيخ":     {"كفر الشيخ", "دسوق"},
		"دمياط":         {"دمياط", "رأس البر"},
		"بورسعيد":       {"بورسعيد", "بورفؤاد"},
		"الإسماعيلية":   {"الإسماعيلية", "فايد"},
		"السويس":        {"السويس"},
		"الفيوم":        {"الفيوم", "إطسا"},
		"بني سويف":      {"بني سويف", "الواسطى"},
		"المنيا":        {"المنيا", "ملوي", "سمالوط"},
		"أسيوط":         {"أسيوط", "ديروط"},
		"سوهاج":         {"سوهاج", "جرجا", "أخميم"},
		"قنا":           {"قنا", "نجع حمادي"},
		"الأقصر":        {"الأقصر", "إسنا"},
		"أسوان":         {"أسوان", "كوم أمبو", "إدفو"},
		"البحر الأحمر":  {"الغردقة", "سفاجا"},
		"الوادي الجديد": {"الخارجة", "الداخلة"},
		"مطروح":         {"مرسى مطروح", "العلمين"},
		"شمال سيناء":    {"العريش"},
		"جنوب سيناء":    {"شرم الشيخ", "دهب"},
	}

	gradeCodes       = make(map[string]string, len(Grades))
	genderCodes      = make(map[string]string, len(Genders))
	stageCodes       = make(map[string]string, len(Stages))
	governorateNames = make([]string, 0, len(governorates))
)

func init() {
	for _, g := range Grades {
		gradeCodes[g.Label] = g.Code
	}
	for _, g := range Genders {
		genderCodes[g.Label] = g.Value
	}
	for _, s := range Stages {
		stageCodes[s.Label] = s.Value
	}
	for name := range governorates {
		governorateNames = append(governorateNames, name)
	}
	sort.Strings(governorateNames)
}

// GradeCode maps a grade label to the backend's numeric code ("4".."12").
// Unknown labels are returned unchanged.
func GradeCode(label string) string {
	if code, ok := gradeCodes[label]; ok {
		return code
	}
	return label
}

// GenderCode maps a gender label to "male" or "female". Unknown labels are returned unchanged.
func GenderCode(label string) string {
	if code, ok := genderCodes[label]; ok {
		return code
	}
	return label
}

// StageCode maps a stage label to "primary", "prep" or "secondary". Unknown labels are returned unchanged.
func StageCode(label string) string {
	if code, ok := stageCodes[label]; ok {
		return code
	}
	return label
}

// GradesFor returns the grades of an education stage (label or code).
func GradesFor(stage string) []Grade {
	stage = StageCode(stage)
	grades := make([]Grade, 0, 3)
	for _, g := range Grades {
		if g.Stage == stage {
			grades = append(grades, g)
		}
	}
	return grades
}

// Governorates returns the sorted list of governorate names.
func Governorates() []string {
	names := make([]string, len(governorateNames))
	copy(names, governorateNames)
	return names
}

// CitiesOf returns the cities of a governorate.
func CitiesOf(governorate string) ([]string, bool) {
	cities, ok := governorates[governorate]
	if !ok {
		return nil, false
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out, true
}

// IsCityOf reports whether city belongs to governorate.
func IsCityOf(city, governorate string) bool {
	for _, c := range governorates[governorate] {
		if c == city {
			return true
		}
	}
	return false
}
