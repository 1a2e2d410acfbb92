package client

// Demo-mode payloads keep trial and unconfigured deployments usable:
// no credentials is a configuration gap, not an error. The generation
// payload is valid JSON shaped like a real model answer so the whole
// downstream pipeline (extraction, section mapping, formatting)
// exercises normally.

const demoGenerationPayload = `{
  "simple_explanation": "This is a demo response. Connect an AI provider in your workspace settings to receive real answers tailored to your classroom.",
  "teaching_script": "Say to your class: 'Today we are trying out our new teaching assistant. Once it is fully set up, it will help us break down any topic step by step.'",
  "examples": "Example: once a provider is configured, asking about photosynthesis returns a grade-appropriate explanation, a mnemonic and comprehension questions.",
  "comprehension_check": "Ask your administrator whether an AI provider has been configured for your school."
}`

const demoChatReply = "This is a demo response. No AI provider is configured for your workspace yet - ask your administrator to add provider credentials in the admin settings, and this chat will start answering for real."
