package constants

// Store path layout. All durable state lives under path-addressed keys.
const (
	OnboardingConfigsPath = "/onboardingConfigs"
	HomesPath             = "/homes"
)

// ConfigSourceAIImport tags onboarding configs created through the
// AI-assisted import endpoint.
const ConfigSourceAIImport = "ai-import"
