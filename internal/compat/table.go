package compat

// authored is deliberately incomplete; missing pairs resolve to the default.
var authored = []Pair{
	{"V1", "V2", 0.85, "Both share strategic thinking with complementary approaches"},
	{"V1", "V3", 0.90, "Pathfinder and Organizer work excellently together"},
	{"V1", "I1", 0.80, "Vision meets creativity, a powerful combination"},
	{"V1", "I2", 0.70, "May need to balance strategic planning with innovation pace"},
	{"V1", "E1", 0.85, "Strategic vision supported by deep expertise"},
	{"V1", "C1", 0.80, "Vision amplified through networking"},
	{"V1", "C2", 0.85, "Strategic direction with collaborative execution"},

	{"V2", "V3", 0.85, "Visionary ideas structured by strategic planning"},
	{"V2", "I1", 0.90, "Future vision meets creative innovation"},
	{"V2", "I2", 0.95, "Exceptional synergy between visionaries and innovators"},
	{"V2", "E1", 0.65, "May clash between big picture and details"},
	{"V2", "C1", 0.80, "Vision spread through networks"},

	{"V3", "I1", 0.70, "Strategic planning may constrain creativity"},
	{"V3", "E1", 0.85, "Strategic expertise, excellent for execution"},
	{"V3", "E2", 0.90, "Systematic approach with specialized knowledge"},
	{"V3", "C2", 0.85, "Strategic plans executed collaboratively"},

	{"I1", "I2", 0.85, "Creative synergy and innovation amplification"},
	{"I1", "I3", 0.90, "Pioneer and Inspirator spark brilliant ideas"},
	{"I1", "E1", 0.60, "Creative freedom vs. expert precision needs balance"},
	{"I1", "E2", 0.50, "Potential conflict between innovation and specialization"},
	{"I1", "C1", 0.85, "Creative ideas spread through networks"},
	{"I1", "C2", 0.80, "Innovation enhanced by collaboration"},

	{"I2", "I3", 0.95, "Innovation powerhouse with transformative potential"},
	{"I2", "E1", 0.65, "Innovation pace vs. expert thoroughness"},
	{"I2", "E2", 0.55, "Change agents may overwhelm specialists"},
	{"I2", "C1", 0.85, "Innovation networked across the organization"},
	{"I2", "C2", 0.75, "Fast innovation may challenge the collaborative process"},

	{"I3", "E1", 0.70, "Inspirator energy balanced by expert stability"},
	{"I3", "E2", 0.65, "Different working styles require adjustment"},
	{"I3", "C1", 0.90, "Energy and networking create momentum"},
	{"I3", "C2", 0.85, "Inspirator sparks collaborative innovation"},

	{"E1", "E2", 0.90, "Deep expertise and specialization complement well"},
	{"E1", "E3", 0.95, "Researcher and Advisor, analytical excellence"},
	{"E1", "C1", 0.70, "Expertise shared through networking"},
	{"E1", "C2", 0.80, "Expert knowledge enhanced by collaboration"},

	{"E2", "E3", 0.90, "Master and Advisor work systematically together"},
	{"E2", "C1", 0.65, "Specialist focus vs. broad networking"},
	{"E2", "C2", 0.75, "Specialized knowledge in a collaborative setting"},

	{"E3", "C1", 0.70, "Analytical depth meets broad connections"},
	{"E3", "C2", 0.80, "Data-driven collaboration"},
	{"E3", "C3", 0.85, "Analytical insights connected across teams"},

	{"C1", "C2", 0.95, "Networking and collaboration, relationship excellence"},
	{"C1", "C3", 0.90, "Harmonizer and Implementer amplify relationships"},
	{"C2", "C3", 0.95, "Collaborative bridge-building at its best"},
}
