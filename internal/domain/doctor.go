package domain

// Doctor is an entry of the static doctor list
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

var doctors = []Doctor{
	{ID: "1", Name: "Dr. Sarah Johnson", Specialization: "Cardiologist"},
	{ID: "2", Name: "Dr. Michael Chen", Specialization: "General Physician"},
	{ID: "3", Name: "Dr. Emily Williams", Specialization: "Neurologist"},
}

// Doctors returns a copy of the doctor list
func Doctors() []Doctor {
	out := make([]Doctor, len(doctors))
	copy(out, doctors)
	return out
}

// FindDoctor looks a doctor up by id
func FindDoctor(id string) (Doctor, bool) {
	for _, d := range doctors {
		if d.ID == id {
			return d, true
		}
	}
	return Doctor{}, false
}
