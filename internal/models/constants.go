package models

const (
	ChatTypePatient   = "patient"
	ChatTypePhysician = "physician"

	VariantPatient   = "patient"
	VariantPhysician = "physician"

	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// TranscriptSentinel marks the system message that carries the raw
	// patient transcript on physician turns. The UI appends the transcript
	// after the sentinel and a blank line.
	TranscriptSentinel = "Here is the transcript of your interaction with the patient:"

	// StudentLinePrefix tags transcript lines spoken by the student.
	StudentLinePrefix = "Student: "

	// TranscriptSource labels transcript-derived chunks in retrieval output.
	TranscriptSource = "patient_transcript_dynamic"

	// GroundingPreamble introduces the retrieved context system message.
	GroundingPreamble = "Here is additional relevant background information and details from the patient interaction or teaching materials:"

	// CoveragePreamble introduces the coverage summary system message.
	CoveragePreamble = "Here is a summary of the student's history-taking performance during the patient interaction:"
)
