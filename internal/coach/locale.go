package coach

type Locale string

const (
	LocaleThai    Locale = "th"
	LocaleEnglish Locale = "en"
)

type phrases struct {
	tooManyRequests string
	unavailable     string
	failed          string
	greeting        string
	defaultName     string
	briefingSystem  string
	chatSystem      string
	briefingTask    string
	studentHeader   string
	scoresHeader    string
	emotionsHeader  string
	goalsHeader     string
	days            string
}

var locales = map[Locale]phrases{
	LocaleThai: {
		tooManyRequests: "ใช้งาน AI มากเกินไป กรุณารอสักครู่แล้วลองใหม่",
		unavailable:     "ระบบ AI ไม่สามารถใช้งานได้ กรุณาติดต่อผู้ดูแลระบบ",
		failed:          "เกิดข้อผิดพลาด",
		greeting:        "สวัสดี",
		defaultName:     "นักเรียน",
		briefingSystem: "คุณคือ AI Learning Coach ที่เป็นมิตร ให้กำลังใจ และให้คำแนะนำส่วนตัวแก่นักเรียนมัธยม\n" +
			"พูดภาษาไทยที่เป็นกันเอง ใช้ emoji เล็กน้อย และเน้นสร้างแรงบันดาลใจ\n" +
			"วิเคราะห์ข้อมูลแล้วให้คำแนะนำที่ชัดเจนและ actionable",
		chatSystem: "คุณคือ AI Learning Coach ที่เป็นมิตร ให้คำแนะนำเกี่ยวกับการเรียนรู้ แรงจูงใจ และการพัฒนาตนเอง\n" +
			"ตอบเป็นภาษาไทยที่เข้าใจง่าย ใช้ emoji บ้าง และให้คำตอบที่เป็นประโยชน์จริง",
		briefingTask: "สร้างข้อความสั้นๆ (150-200 คำ) ที่มี:\n" +
			"1. ทักทายและชื่นชมความพยายาม\n" +
			"2. highlight ข้อมูลสำคัญ (streak, emotions, progress)\n" +
			"3. ชี้ให้เห็นมิติ motivation ที่ต่ำและต้องพัฒนา\n" +
			"4. แนะนำกิจกรรม 2-3 อย่างที่ทำได้วันนี้เพื่อพัฒนา\n" +
			"5. ให้กำลังใจปิดท้าย",
		studentHeader:  "สร้าง morning briefing สำหรับนักเรียน:\n\nข้อมูลนักเรียน:",
		scoresHeader:   "Motivation Scores (ค่าเฉลี่ย 7 วันล่าสุด):",
		emotionsHeader: "Emotion Trend (7 วันล่าสุด):",
		goalsHeader:    "เป้าหมายที่กำลังดำเนินการ:",
		days:           "วัน",
	},
	LocaleEnglish: {
		tooManyRequests: "Too many AI requests. Please wait a moment and try again.",
		unavailable:     "The AI service is unavailable. Please contact the administrator.",
		failed:          "Something went wrong",
		greeting:        "Hello",
		defaultName:     "Student",
		briefingSystem: "You are a friendly AI Learning Coach who encourages high-school students and gives personal advice.\n" +
			"Speak casually, use a few emoji and focus on inspiration.\n" +
			"Analyse the data and give clear, actionable advice.",
		chatSystem: "You are a friendly AI Learning Coach who advises on learning, motivation and self-improvement.\n" +
			"Answer in plain language, use some emoji and keep answers genuinely useful.",
		briefingTask: "Write a short message (150-200 words) that:\n" +
			"1. Greets the student and praises their effort\n" +
			"2. Highlights the key data (streak, emotions, progress)\n" +
			"3. Points out the weakest motivation dimensions\n" +
			"4. Suggests 2-3 activities they can do today to improve\n" +
			"5. Closes with encouragement",
		studentHeader:  "Create a morning briefing for this student:\n\nStudent:",
		scoresHeader:   "Motivation Scores (7-day average):",
		emotionsHeader: "Emotion Trend (last 7 logs):",
		goalsHeader:    "Active goals:",
		days:           "days",
	},
}

func phrasesFor(l Locale) phrases {
	if p, ok := locales[l]; ok {
		return p
	}
	return locales[LocaleThai]
}
