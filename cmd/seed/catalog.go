package main

import "notecraft-be/pkg/rag/namespace"

// catalog lists the subtopics fetched for each namespace when seeding.
var catalog = map[namespace.Namespace][]string{
	namespace.Physics: {
		"quantum mechanics", "astrophysics", "condensed matter physics", "particle physics",
		"thermodynamics", "electromagnetism", "fluid dynamics", "optics", "nuclear physics",
	},
	namespace.Biology: {
		"genomics", "ecology", "microbiology", "evolutionary biology", "molecular biology",
		"cell biology", "marine biology", "botany", "zoology",
	},
	namespace.Chemistry: {
		"organic chemistry", "inorganic chemistry", "physical chemistry", "biochemistry",
		"environmental chemistry", "nanochemistry",
	},
	namespace.CSMath: {
		"machine learning", "artificial intelligence", "algorithms", "data structures",
		"computer vision", "natural language processing", "cryptography",
		"theoretical computer science", "statistics", "probability", "number theory", "graph theory",
	},
	namespace.Medicine: {
		"clinical trials", "epidemiology", "pharmacology", "immunology", "neurology",
		"cardiology", "oncology", "nutrition", "psychiatry",
	},
	namespace.Engineering: {
		"electrical engineering", "mechanical engineering", "civil engineering",
		"aerospace engineering", "chemical engineering", "biomedical engineering", "robotics",
	},
	namespace.EarthSciences: {
		"geology", "meteorology", "oceanography", "climatology", "environmental science",
		"sustainability", "hydrology", "soil science", "paleontology",
	},
	namespace.SocialSciences: {
		"psychology", "sociology", "anthropology", "political science", "economics",
		"education", "linguistics", "archaeology", "urban studies", "gender studies",
	},
	namespace.History: {
		"ancient history", "medieval history", "modern history", "world wars", "cultural history",
		"economic history", "art history", "military history", "colonial history",
	},
	namespace.PhilosophyEthics: {
		"metaphysics", "epistemology", "ethics", "political philosophy", "philosophy of science",
		"philosophy of mind", "existentialism", "bioethics",
	},
	namespace.ArtsHumanities: {
		"literature", "film studies", "visual arts", "creative writing", "cultural studies",
		"religious studies", "folklore", "media studies",
	},
	namespace.BusinessManagement: {
		"marketing", "finance", "entrepreneurship", "organizational behavior",
		"supply chain management", "human resources", "strategic management", "accounting",
		"international business", "business ethics",
	},
	namespace.LawPolicy: {
		"constitutional law", "criminal law", "environmental law", "human rights law",
		"public policy", "corporate law", "intellectual property law", "labor law", "cyber law",
	},
	namespace.TechnologyInnovation: {
		"blockchain", "internet of things", "cybersecurity", "cloud computing", "big data",
		"augmented reality", "3D printing", "autonomous vehicles",
	},
	namespace.AgricultureFoodScience: {
		"agronomy", "horticulture", "food safety", "agricultural economics", "plant breeding",
		"soil fertility", "pest management", "sustainable agriculture",
	},
	namespace.EnergySustainability: {
		"renewable energy", "energy storage", "fossil fuels", "carbon capture",
		"energy efficiency", "nuclear energy", "sustainable development",
	},
	namespace.PsychologyCognitiveScience: {
		"cognitive psychology", "developmental psychology", "social psychology", "neuropsychology",
		"behavioral psychology", "clinical psychology", "cognitive neuroscience", "psychometrics",
		"personality psychology", "industrial-organizational psychology",
	},
	namespace.MathematicsAppliedMath: {
		"algebra", "calculus", "differential equations", "topology", "mathematical modeling",
		"numerical analysis", "dynamical systems", "mathematical physics",
		"financial mathematics", "game theory",
	},
}
