// Package persona defines the fixed roster of synthetic judge profiles.
//
// The roster is process-wide, read-only data: every pair in a run is judged
// once per persona, in roster order.
package persona

// Persona is one synthetic judge profile. Bias states the persuasion
// attributes the persona favors or disfavors and conditions every judgment
// made in its name.
type Persona struct {
	ID   string
	Desc string
	Bias string
}

// roster order is load-bearing: task enumeration and report rows follow it.
var roster = []Persona{
	{ID: "P1_Traditionalist", Desc: "Values heritage, duty.", Bias: "Prefers Authority, Familiarity."},
	{ID: "P2_Trendsetter", Desc: "Values status, FOMO.", Bias: "Prefers Social Proof, Scarcity."},
	{ID: "P3_Safety_Anxious", Desc: "Risk-averse.", Bias: "Dislikes Scarcity. Prefers Trustworthiness."},
	{ID: "P4_Elite_Luxury", Desc: "Values exclusivity.", Bias: "Prefers Scarcity. Dislikes Social Proof."},
	{ID: "P5_Skeptic", Desc: "Needs evidence.", Bias: "Prefers Data. Dislikes Emotional Appeal."},
	{ID: "P6_Pragmatist", Desc: "Values utility.", Bias: "Prefers Clear shots. Dislikes artistic fluff."},
	{ID: "P7_Community", Desc: "Values belonging.", Bias: "Prefers Social Proof."},
	{ID: "P8_Individualist", Desc: "Values uniqueness.", Bias: "Dislikes Social Proof."},
	{ID: "P9_Futurist", Desc: "Loves innovation.", Bias: "Prefers Novelty."},
	{ID: "P10_Naturalist", Desc: "Values purity.", Bias: "Dislikes Artificiality."},
	{ID: "P11_Busy_Pro", Desc: "Values efficiency.", Bias: "Prefers Availability."},
	{ID: "P12_Jester", Desc: "Values humor.", Bias: "Prefers Humor."},
}

// Roster returns the fixed persona roster in judgment order. The returned
// slice is a copy; callers may reorder or filter it freely.
func Roster() []Persona {
	out := make([]Persona, len(roster))
	copy(out, roster)
	return out
}

// ByID returns the persona with the given ID, or false when absent.
func ByID(id string) (Persona, bool) {
	for _, p := range roster {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
