package export

// Columns is the fixed, ordered export schema. The order is significant and
// fixed at build time; both encodings key rows by these names. The first
// three columns come from the tracked record itself, the rest from the
// analyzer payload.
var Columns = []string{
	"filename",
	"status",
	"analyzed_at",
	"job_title",
	"company_name",
	"department",
	"location",
	"remote_policy",
	"employment_type",
	"seniority_level",
	"years_experience_min",
	"years_experience_max",
	"education_level",
	"salary_min",
	"salary_max",
	"salary_currency",
	"salary_period",
	"benefits",
	"required_skills",
	"preferred_skills",
	"tools_technologies",
	"certifications",
	"languages",
	"industry",
	"job_summary",
	"responsibilities",
	"qualifications",
	"team_size",
	"reports_to",
	"travel_required",
	"visa_sponsorship",
	"security_clearance",
	"posting_date",
	"application_deadline",
	"application_url",
	"contact_email",
	"equal_opportunity_statement",
	"keywords",
}
