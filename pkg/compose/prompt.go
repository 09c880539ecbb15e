package compose

import (
	"regexp"
	"strings"
)

const coldEmailTemplate = `You are an expert cold email writer. Generate a professional, personalized cold email based on the user's requirements.

Guidelines:
- Keep it concise (150-200 words max)
- Make it personal and relevant
- Include a clear value proposition
- Have a specific call-to-action
- Use a professional but friendly tone
- Include placeholders like [Name], [Company] where appropriate
- Start with an engaging subject line

Structure:
1. Subject line
2. Personal greeting
3. Brief context/connection
4. Value proposition
5. Social proof (if relevant)
6. Clear call-to-action
7. Professional closing

User Request: {prompt}
{userContext}
{attachmentContext}

Generate a cold email that follows best practices and is likely to get a response.`

const coldEmailWithBackgroundTemplate = `You are an expert cold email writer. Generate a professional, personalized cold email based on the user's requirements and their background.

Guidelines:
- Keep it concise (150-200 words max)
- Make it personal and relevant using the user's background
- Include a clear value proposition based on user's expertise
- Have a specific call-to-action
- Use a professional but friendly tone
- Include placeholders like [Name], [Company] where appropriate
- Start with an engaging subject line
- Leverage the user's background to establish credibility

Structure:
1. Subject line
2. Personal greeting
3. Brief context/connection (use user background when relevant)
4. Value proposition (based on user's skills/experience)
5. Social proof (from user's background if available)
6. Clear call-to-action
7. Professional closing

User Request: {prompt}
{userContext}
{attachmentContext}

Generate a cold email that follows best practices and leverages the user's background for maximum impact.`

const customTemplatePrompt = `You are an expert cold email writer. Use the following template as a base and customize it based on the user's specific requirements.

Template:
{template}

User Requirements:
{prompt}

Instructions:
- Customize the template to match the user's specific needs
- Keep the professional tone and structure
- Make it personal and relevant
- Ensure it's concise and actionable
- Include a clear subject line

Generate the customized email:`

const summaryPrompt = `You are an AI assistant that creates concise professional summaries. Based on the user's input and any document context, create a brief professional summary that captures the key information for cold email generation.

Focus on:
- Professional background and experience
- Key skills and expertise
- Notable achievements or credentials
- Industry or domain focus
- What services/products they offer
- Target audience or market

Keep it concise (2-3 sentences max) and professional. This will be used to personalize cold emails.

User Input: {input}
{documentContext}

Generate a professional summary:`

// buildEmailPrompt assembles the generation prompt for a request. A
// custom template takes precedence; user background selects the
// credibility-focused variant of the default template.
func buildEmailPrompt(req EmailRequest) string {
	if req.Template != "" {
		prompt := strings.ReplaceAll(customTemplatePrompt, "{template}", req.Template)
		return strings.ReplaceAll(prompt, "{prompt}", req.Prompt)
	}

	tmpl := coldEmailTemplate
	userContext := ""
	if req.UserContext != "" {
		tmpl = coldEmailWithBackgroundTemplate
		userContext = "\nUser Background: " + req.UserContext
	}

	attachmentContext := ""
	if req.AttachmentContext != "" {
		attachmentContext = "\nAdditional Context from attachments: " + req.AttachmentContext
	}

	prompt := strings.ReplaceAll(tmpl, "{prompt}", req.Prompt)
	prompt = strings.ReplaceAll(prompt, "{userContext}", userContext)
	return strings.ReplaceAll(prompt, "{attachmentContext}", attachmentContext)
}

func buildSummaryPrompt(input, documentContext string) string {
	docContext := ""
	if documentContext != "" {
		docContext = "\nDocument Context: " + documentContext
	}

	prompt := strings.ReplaceAll(summaryPrompt, "{input}", input)
	return strings.ReplaceAll(prompt, "{documentContext}", docContext)
}

var subjectLineRe = regexp.MustCompile(`(?i)subject:\s*(.+)`)

const fallbackSubject = "Quick question about collaboration"

// parseEmail extracts a subject and body from raw model output. The
// model is prompted to lead with a subject line and open the body with
// a greeting; when that structure is missing, the whole output becomes
// the body under a generic subject.
func parseEmail(text string) *Email {
	var subject, body string
	inBody := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.Contains(strings.ToLower(trimmed), "subject:"):
			if m := subjectLineRe.FindStringSubmatch(trimmed); m != nil {
				subject = strings.TrimSpace(m[1])
			}
		case subject != "" && !inBody && hasGreeting(trimmed):
			inBody = true
			body = trimmed
		case inBody:
			body += "\n" + trimmed
		}
	}

	if subject == "" || body == "" {
		if m := subjectLineRe.FindStringSubmatch(text); m != nil {
			subject = strings.TrimSpace(m[1])
		} else {
			subject = fallbackSubject
		}
		body = strings.TrimSpace(subjectLineRe.ReplaceAllString(text, ""))
	}

	return &Email{
		Subject:   subject,
		Body:      body,
		FullEmail: "Subject: " + subject + "\n\n" + body,
	}
}

func hasGreeting(line string) bool {
	return strings.HasPrefix(line, "Hi ") ||
		strings.HasPrefix(line, "Hello ") ||
		strings.HasPrefix(line, "Dear ")
}
