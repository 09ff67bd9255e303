package chatbot

// Topic names a knowledge base entry. Values double as metric labels.
type Topic string

const (
	TopicGreeting       Topic = "greeting"
	TopicCompany        Topic = "company"
	TopicWebDevelopment Topic = "web_development"
	TopicMobileApps     Topic = "mobile_apps"
	TopicAISolutions    Topic = "ai_solutions"
	TopicCustomSoftware Topic = "custom_software"
	TopicPricing        Topic = "pricing"
	TopicContact        Topic = "contact"
	TopicProcess        Topic = "process"
	TopicFallback       Topic = "fallback"
)

type rule struct {
	topic Topic
	terms []string
}

// rules are checked in order; the first topic with a matching term wins.
var rules = []rule{
	{TopicGreeting, []string{
		"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening",
	}},
	{TopicCompany, []string{
		"atom next", "atom next solutions", "atom next ai", "atomnext", "about atom", "who are you",
		"company", "about company", "about us", "tell me about atom",
	}},
	{TopicWebDevelopment, []string{
		"web development", "website", "web app", "web application", "website development",
		"frontend", "backend", "full stack", "responsive design",
	}},
	{TopicMobileApps, []string{
		"mobile app", "mobile application", "ios", "android", "app development",
		"cross platform", "react native", "flutter",
	}},
	{TopicAISolutions, []string{
		"ai", "artificial intelligence", "machine learning", "ml", "chatbot",
		"automation", "data analytics", "predictive analytics",
	}},
	{TopicCustomSoftware, []string{
		"custom software", "software development", "enterprise software",
		"business software", "custom solution",
	}},
	{TopicPricing, []string{
		"price", "cost", "pricing", "how much", "budget", "quote", "estimate",
	}},
	{TopicContact, []string{
		"contact", "reach", "get in touch", "email", "phone", "address",
		"location", "office", "meet",
	}},
	{TopicProcess, []string{
		"process", "how it works", "workflow", "timeline", "duration",
		"steps", "methodology", "approach",
	}},
}

var responses = map[Topic][]string{
	TopicGreeting: {
		"Hello! 👋 I'm Atom Next AI's assistant. How can I help you today?",
		"Hi there! 👋 Welcome to Atom Next AI. What can I do for you?",
		"Hey! 👋 I'm here to help you with any questions about our services.",
	},
	TopicCompany: {
		`Atom Next Solutions is a cutting-edge technology company founded by Nasheel Damudi, Shaanif Ahmed, and Azhar Ali. We specialize in transforming businesses through innovative technology solutions.

Our expertise includes:
• Web Development
• Mobile App Development
• AI Solutions
• Custom Software Development

We're passionate about helping businesses grow through technology and innovation. Our team combines technical expertise with creative problem-solving to deliver exceptional results.`,
		`Welcome to Atom Next Solutions! We're a dynamic team of technology experts dedicated to helping businesses succeed in the digital age.

Founded by industry professionals, we offer:
• Modern Web Solutions
• Mobile Applications
• AI Integration
• Custom Software

Our mission is to empower businesses with technology that drives growth and innovation.`,
	},
	TopicWebDevelopment: {
		"We offer comprehensive web development services including responsive websites, web applications, and e-commerce solutions. Our team uses modern technologies like React, Angular, and Node.js to create robust and scalable web solutions.",
		"Our web development services cover everything from simple websites to complex web applications. We focus on creating user-friendly, responsive, and high-performance solutions tailored to your needs.",
	},
	TopicMobileApps: {
		"We develop both native and cross-platform mobile applications for iOS and Android. Our mobile solutions are designed to provide excellent user experience and performance across all devices.",
		"Our mobile app development services include iOS, Android, and cross-platform development using technologies like React Native and Flutter. We ensure your app is fast, secure, and user-friendly.",
	},
	TopicAISolutions: {
		"We provide cutting-edge AI solutions including chatbots, process automation, and data analytics. Our AI services help businesses streamline operations and make data-driven decisions.",
		"Our AI solutions range from intelligent chatbots to complex machine learning systems. We help businesses leverage artificial intelligence to improve efficiency and gain competitive advantages.",
	},
	TopicCustomSoftware: {
		"We develop custom software solutions tailored to your specific business needs. Our team creates scalable and maintainable software that helps streamline your operations.",
		"Our custom software development services focus on creating solutions that perfectly match your business requirements. We ensure high quality, security, and scalability in every project.",
	},
	TopicPricing: {
		"Our pricing varies based on project requirements and scope. Would you like to schedule a consultation to discuss your specific needs and get a detailed quote?",
		"We provide customized quotes based on your project requirements. Let's schedule a call to understand your needs better and provide an accurate estimate.",
	},
	TopicContact: {
		"You can reach us through our contact form on the website or schedule a consultation call. Would you like me to help you with that?",
		"We're available through multiple channels. You can contact us via the website, email, or schedule a call. I can help you with any of these options.",
	},
	TopicProcess: {
		"Our development process includes: 1) Discovery and consultation, 2) Planning and design, 3) Development, 4) Testing, 5) Deployment, and 6) Ongoing support. Would you like to know more about any specific phase?",
		"We follow a systematic approach: starting with understanding your requirements, creating a detailed plan, developing the solution, thorough testing, and providing ongoing support. Each phase is designed to ensure the best results.",
	},
	TopicFallback: {
		"I'm not sure I understand. Could you please rephrase your question? I can help you with information about our services, pricing, or process.",
		"I'm still learning! Could you try asking that in a different way? I can tell you about our web development, mobile apps, AI solutions, or custom software services.",
	},
}

// Responses returns the canned replies for a topic.
func Responses(topic Topic) []string {
	return append([]string(nil), responses[topic]...)
}
