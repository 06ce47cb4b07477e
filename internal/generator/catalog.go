package generator

var lessons = []Lesson{
	{Name: "Home Position", Keys: "asdf jkl;", Description: "Learn the home row position"},
	{Name: "Left Hand", Keys: "asdf asdf", Description: "Practice left hand keys"},
	{Name: "Right Hand", Keys: "jkl; jkl;", Description: "Practice right hand keys"},
	{Name: "Both Hands", Keys: "asdf jkl; asdf jkl;", Description: "Combine both hands"},
	{Name: "Simple Words", Keys: "ask dad salad flask", Description: "Type home row words"},
}

var homeRowPrompts = []string{
	"asdf jkl; asdf jkl;",
	"asd jkl asd jkl asd",
	"fall sad flask",
	"ask dad salad",
	"lads fall fast",
	"half dash flask",
	"ask a lad",
	"dad had a salad",
	"a sad lad falls fast",
	"ask dad for a flask",
}

var beginnerPrompts = []string{
	"the cat sat on a mat",
	"a dog ran in the park",
	"she likes to read books",
	"the sun is very bright",
	"i can run very fast",
	"we play games together",
	"my friend is very kind",
	"birds fly in the sky",
	"the fish swims in water",
	"i love my family",
}

var intermediatePrompts = []string{
	"typing is a useful skill to learn",
	"practice makes perfect every day",
	"computers help us do many things",
	"the quick brown fox jumps over the lazy dog",
	"learning to type fast is really fun",
	"i enjoy playing video games with friends",
	"reading books helps you learn new words",
	"the weather is nice and sunny today",
	"my favorite color is blue and green",
	"we went to the beach last summer",
}

var advancedPrompts = []string{
	"the quick brown fox jumps over the lazy dog near the riverbank",
	"programming requires patience and careful attention to detail",
	"technology continues to change how we communicate with each other",
	"science and mathematics are fundamental subjects for students",
	"creative writing helps express thoughts and feelings clearly",
	"exercising regularly keeps your body healthy and strong",
	"music and art bring joy and inspiration to many people",
	"exploring nature teaches us about the world around us",
	"teamwork and collaboration lead to amazing achievements",
	"curiosity drives innovation and new discoveries every day",
}

var punctuationPrompts = []string{
	"hello! how are you today?",
	"wow, that is amazing!",
	"can you help me, please?",
	"yes, i can do it!",
	"where is the library?",
	"look out! it is coming fast!",
	"she said, 'hello there!'",
	"wait... i need to think.",
	"ready? set! go!",
	"great job, keep it up!",
}

var numberPrompts = []string{
	"i have 5 apples",
	"there are 12 months",
	"she is 11 years old",
	"the year is 2024",
	"add 3 plus 7 equals 10",
	"my address is 42 main street",
	"the score is 100 points",
	"chapter 8 starts on page 95",
	"i need 20 more minutes",
	"the train leaves at 3:45",
}

var promptCatalog = map[Category][]string{
	HomeRow:      homeRowPrompts,
	Beginner:     beginnerPrompts,
	Intermediate: intermediatePrompts,
	Advanced:     advancedPrompts,
	Punctuation:  punctuationPrompts,
	Numbers:      numberPrompts,
}

var (
	homeRowLetters   = []string{"a", "s", "d", "f", "g", "h", "j", "k", "l", ";"}
	topRowLetters    = []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p"}
	bottomRowLetters = []string{"z", "x", "c", "v", "b", "n", "m", ",", ".", "/"}
	allLetters       = append(append(append([]string(nil), homeRowLetters...), topRowLetters...), bottomRowLetters...)
)

var easyWords = []string{
	"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
	"her", "was", "one", "our", "out", "day", "get", "has", "him", "his",
	"how", "its", "may", "new", "now", "old", "see", "two", "way", "who",
}

var mediumWords = []string{
	"about", "after", "again", "being", "could", "every", "first", "found",
	"great", "house", "large", "little", "never", "other", "place", "right",
	"small", "still", "their", "there", "these", "thing", "think", "three",
	"water", "where", "which", "world", "would", "write", "years", "young",
}
