package model

// Field names a sensitive patient attribute.
type Field string

// Sensitive patient attributes. Everything here is encrypted at rest.
const (
	FieldAbhaID             Field = "abhaId"
	FieldGender             Field = "gender"
	FieldDOB                Field = "dob"
	FieldDietaryHabits      Field = "dietaryHabits"
	FieldMealFrequency      Field = "mealFrequency"
	FieldFoodPreferences    Field = "foodPreferences"
	FieldWaterIntake        Field = "waterIntake"
	FieldBowelMovements     Field = "bowelMovements"
	FieldMedicalConditions  Field = "medicalConditions"
	FieldMedications        Field = "medications"
	FieldSupplements        Field = "supplements"
	FieldAllergies          Field = "allergies"
	FieldBloodType          Field = "bloodType"
	FieldHeight             Field = "height"
	FieldWeight             Field = "weight"
	FieldBMI                Field = "BMI"
	FieldWaistCircumference Field = "waistCircumference"
	FieldActivityLevel      Field = "activityLevel"
	FieldSleepPattern       Field = "sleepPattern"
	FieldStressLevel        Field = "stressLevel"
	FieldSmokingStatus      Field = "smokingStatus"
	FieldAlcoholIntake      Field = "alcoholIntake"
	FieldNotes              Field = "notes"
	FieldLastVisit          Field = "lastVisit"
)

// SensitiveField describes one entry of the sensitive set.
type SensitiveField struct {
	Name Field
	List bool
}

// SensitiveFields is the single list of encrypted attributes. Encryption,
// decryption, validation and the backfill all iterate it.
var SensitiveFields = []SensitiveField{
	{Name: FieldAbhaID},
	{Name: FieldGender},
	{Name: FieldDOB},
	{Name: FieldDietaryHabits},
	{Name: FieldMealFrequency},
	{Name: FieldFoodPreferences, List: true},
	{Name: FieldWaterIntake},
	{Name: FieldBowelMovements},
	{Name: FieldMedicalConditions, List: true},
	{Name: FieldMedications, List: true},
	{Name: FieldSupplements, List: true},
	{Name: FieldAllergies, List: true},
	{Name: FieldBloodType},
	{Name: FieldHeight},
	{Name: FieldWeight},
	{Name: FieldBMI},
	{Name: FieldWaistCircumference},
	{Name: FieldActivityLevel},
	{Name: FieldSleepPattern},
	{Name: FieldStressLevel},
	{Name: FieldSmokingStatus},
	{Name: FieldAlcoholIntake},
	{Name: FieldNotes},
	{Name: FieldLastVisit},
}

// RequiredOnCreate lists sensitive attributes that must be non-empty when a
// patient is registered. The plaintext name is required as well.
var RequiredOnCreate = []Field{FieldDOB, FieldGender}

var sensitiveIndex = func() map[Field]SensitiveField {
	m := make(map[Field]SensitiveField, len(SensitiveFields))
	for _, f := range SensitiveFields {
		m[f.Name] = f
	}
	return m
}()

// LookupField returns the definition of a sensitive attribute.
func LookupField(name string) (SensitiveField, bool) {
	f, ok := sensitiveIndex[Field(name)]
	return f, ok
}
