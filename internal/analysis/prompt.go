package analysis

// extractionPrompt instructs the model to return a single JSON object whose
// keys line up with the export column schema. Missing information must be
// null rather than guessed.
const extractionPrompt = `You are an expert Job Description Analysis Agent. Analyze the job description text below and extract structured data.

### INSTRUCTIONS:
1. Read the full text and identify the core details of the role.
2. Ignore boilerplate such as cookie banners, navigation text, and unrelated postings.
3. Extract the fields below strictly from the provided text.
4. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
  "job_title": "Job title (e.g., Senior Backend Engineer)",
  "company_name": "Hiring company name",
  "department": "Department or team, if stated",
  "location": "Location or 'Remote'",
  "remote_policy": "remote | hybrid | onsite, if stated",
  "employment_type": "full-time | part-time | contract | internship",
  "seniority_level": "entry | mid | senior | lead | executive",
  "years_experience_min": "Minimum years of experience as a number",
  "years_experience_max": "Maximum years of experience as a number",
  "education_level": "Required education, if stated",
  "salary_min": "Lower salary bound as a number",
  "salary_max": "Upper salary bound as a number",
  "salary_currency": "Currency code, e.g. USD",
  "salary_period": "yearly | monthly | hourly",
  "benefits": ["Array", "of", "benefits"],
  "required_skills": ["Array", "of", "required skills"],
  "preferred_skills": ["Array", "of", "nice-to-have skills"],
  "tools_technologies": ["Array", "of", "tools and technologies"],
  "certifications": ["Array", "of", "required certifications"],
  "languages": ["Array", "of", "required spoken languages"],
  "industry": "Industry of the company",
  "job_summary": "A clean two or three sentence summary of the role",
  "responsibilities": ["Array", "of", "key responsibilities"],
  "qualifications": ["Array", "of", "qualifications"],
  "team_size": "Team size as a number, if stated",
  "reports_to": "Role this position reports to, if stated",
  "travel_required": "Travel expectation, if stated",
  "visa_sponsorship": "Whether visa sponsorship is offered, if stated",
  "security_clearance": "Required clearance, if stated",
  "posting_date": "Posting date, if stated",
  "application_deadline": "Application deadline, if stated",
  "application_url": "Application URL, if stated",
  "contact_email": "Contact email, if stated",
  "equal_opportunity_statement": "EEO statement, if present",
  "keywords": ["Array", "of", "salient keywords"]
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### JOB DESCRIPTION TEXT:
%s
`
