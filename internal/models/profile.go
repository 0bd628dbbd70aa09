package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds a user's professional data plus two embedded,
// most-recent-first lists of experience and education entries.
type Profile struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"user" bson:"user"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Status         string             `json:"status" bson:"status"`
	Skills         []string           `json:"skills" bson:"skills"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	GithubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Experience     []Experience       `json:"experience" bson:"experience"`
	Education      []Education        `json:"education" bson:"education"`
	Social         Social             `json:"social" bson:"social"`
	Date           time.Time          `json:"date" bson:"date"`
}

type Social struct {
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
}

// Experience is embedded in a Profile and has no identity outside it.
// Dates arrive as form strings and are stored verbatim.
type Experience struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	Company     string `json:"company" bson:"company"`
	Location    string `json:"location,omitempty" bson:"location,omitempty"`
	From        string `json:"from" bson:"from"`
	To          string `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool   `json:"current" bson:"current"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           string `json:"id" bson:"id"`
	School       string `json:"school" bson:"school"`
	Degree       string `json:"degree" bson:"degree"`
	FieldOfStudy string `json:"fieldofstudy" bson:"fieldofstudy"`
	From         string `json:"from" bson:"from"`
	To           string `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool   `json:"current" bson:"current"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
}

// ProfileWithOwner is a Profile response with the owning user's name and
// avatar joined in. The embedded Profile's raw user id is shadowed by Owner.
type ProfileWithOwner struct {
	Profile
	Owner *UserRef `json:"user"`
}

func NewProfileWithOwner(p Profile, u *User) ProfileWithOwner {
	out := ProfileWithOwner{Profile: p}
	if u != nil {
		out.Owner = &UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return out
}

// ProfileFields is the partial-update document for the profile upsert.
// Only non-empty optional fields overwrite what is stored; Status, Skills
// and Social are always written.
type ProfileFields struct {
	Company        string
	Location       string
	Status         string
	Skills         []string
	Bio            string
	GithubUsername string
	Social         Social
}

type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
	Facebook       string `json:"facebook"`
}

func (r *UpsertProfileRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Status == "" {
		errs = append(errs, FieldError{Msg: "Status is required", Param: "status"})
	}
	if r.Skills == "" {
		errs = append(errs, FieldError{Msg: "Skills are required", Param: "skills"})
	}

	return errs
}

// Fields builds the partial-update document. Skills is a comma-delimited
// string; entries are trimmed but otherwise kept as the split produced them.
// Website is accepted by the form contract but never persisted.
func (r *UpsertProfileRequest) Fields() *ProfileFields {
	f := &ProfileFields{
		Company:        r.Company,
		Location:       r.Location,
		Status:         r.Status,
		Bio:            r.Bio,
		GithubUsername: r.GithubUsername,
		Social: Social{
			Youtube:   r.Youtube,
			Twitter:   r.Twitter,
			Instagram: r.Instagram,
			Linkedin:  r.Linkedin,
			Facebook:  r.Facebook,
		},
	}

	for _, s := range strings.Split(r.Skills, ",") {
		f.Skills = append(f.Skills, strings.TrimSpace(s))
	}

	return f
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (r *ExperienceRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Title == "" {
		errs = append(errs, FieldError{Msg: "Title is required", Param: "title"})
	}
	if r.Company == "" {
		errs = append(errs, FieldError{Msg: "Company is required", Param: "company"})
	}
	if r.From == "" {
		errs = append(errs, FieldError{Msg: "From date is required", Param: "from"})
	}

	return errs
}

func (r *ExperienceRequest) Entry() Experience {
	return Experience{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        r.From,
		To:          r.To,
		Current:     r.Current,
		Description: r.Description,
	}
}

type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (r *EducationRequest) Validate() []FieldError {
	var errs []FieldError

	if r.School == "" {
		errs = append(errs, FieldError{Msg: "School is required", Param: "school"})
	}
	if r.Degree == "" {
		errs = append(errs, FieldError{Msg: "Degree is required", Param: "degree"})
	}
	if r.FieldOfStudy == "" {
		errs = append(errs, FieldError{Msg: "Field of study is required", Param: "fieldofstudy"})
	}
	if r.From == "" {
		errs = append(errs, FieldError{Msg: "From date is required", Param: "from"})
	}

	return errs
}

func (r *EducationRequest) Entry() Education {
	return Education{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         r.From,
		To:           r.To,
		Current:      r.Current,
		Description:  r.Description,
	}
}
