package compliance

const generalResponse = "I apologize, but I'm unable to discuss this topic as it may violate our company's " +
	"compliance policies. I'll connect you with a human representative who can better " +
	"assist you with your inquiry. They will contact you shortly."

var categoryResponses = map[RiskCategory]string{
	RiskIllegalActivity: "I apologize, but I cannot assist with activities that may be illegal or violate regulations. " +
		"I'll connect you with a human representative who can clarify what services we can legally provide. " +
		"They will contact you shortly.",
	RiskPrivacyViolation: "I apologize, but I cannot assist with activities that may violate privacy rights or data protection laws. " +
		"I'll connect you with a human representative who can discuss our privacy-compliant services. " +
		"They will contact you shortly.",
	RiskFinancialFraud: "I apologize, but I cannot assist with activities that may involve financial fraud or deception. " +
		"I'll connect you with a human representative who can discuss our legitimate financial services. " +
		"They will contact you shortly.",
}

// Response returns the human-handoff reply for a risk category. Every
// category has a response; unlisted categories use the general text.
func Response(category RiskCategory) string {
	if resp, ok := categoryResponses[category]; ok {
		return resp
	}
	return generalResponse
}
