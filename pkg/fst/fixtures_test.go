package fst_test

// fixture is an expression with the words it must map and its expected
// functionality. A nil output list means the word is rejected.
type fixture struct {
	expr       string
	functional bool
	words      map[string][]uint64
}

var fixtures = []fixture{
	{
		expr:       "a:5",
		functional: true,
		words: map[string][]uint64{
			"a":  {5},
			"":   nil,
			"aa": nil,
		},
	},
	{
		expr:       "a:5 *",
		functional: true,
		words: map[string][]uint64{
			"":    {0},
			"a":   {5},
			"aaa": {15},
			"b":   nil,
		},
	},
	{
		expr:       "a:5 a:100 | *",
		functional: false,
		words: map[string][]uint64{
			"a":   {5, 100},
			"aa":  {10, 105, 200},
			"aaa": {15, 110, 205, 300},
		},
	},
	{
		expr:       "a:5 a:100 | * c:40 * .",
		functional: false,
		words: map[string][]uint64{
			"":       {0},
			"c":      {40},
			"cc":     {80},
			"aaaaac": {65, 160, 255, 350, 445, 540},
			"ca":     nil,
		},
	},
	{
		expr:       "a:5 b:100 | c:1 |",
		functional: true,
		words: map[string][]uint64{
			"a":  {5},
			"b":  {100},
			"c":  {1},
			"ac": nil,
		},
	},
	{
		expr:       "a:5 b:100 | c:1 .",
		functional: true,
		words: map[string][]uint64{
			"ac": {6},
			"bc": {101},
			"a":  nil,
			"c":  nil,
		},
	},
	{
		expr:       "a:5 b:100 | c:1 . *",
		functional: true,
		words: map[string][]uint64{
			"":       {0},
			"bcac":   {107},
			"acacbc": {113},
			"aca":    nil,
		},
	},
	{
		expr:       "a:5 b:100 | c:1 . * d:3 |",
		functional: true,
		words: map[string][]uint64{
			"":   {0},
			"d":  {3},
			"ac": {6},
			"dd": nil,
		},
	},
	{
		expr:       "a:5 b:100 | c:1 . * d:3 | *",
		functional: true,
		words: map[string][]uint64{
			"":        {0},
			"dd":      {6},
			"dacdacd": {21},
			"acacbcd": {116},
		},
	},
	{
		expr:       "a:5 b:100 | c:1 . * d:3 | * x:7 .",
		functional: true,
		words: map[string][]uint64{
			"x":        {7},
			"dx":       {10},
			"dacdacdx": {28},
			"":         nil,
			"dacdacd":  nil,
		},
	},
	{
		expr:       "a:1 b:2 c:3 d:4 e:5 . . . .",
		functional: true,
		words: map[string][]uint64{
			"abcde": {15},
			"abcd":  nil,
		},
	},
	{
		expr:       "a:1 b:2 c:3 d:4 e:5 . . . . +",
		functional: true,
		words: map[string][]uint64{
			"abcde":           {15},
			"abcdeabcde":      {30},
			"abcdeabcdeabcde": {45},
			"":                nil,
		},
	},
	{
		expr:       "a:1 b:2 * c:3 d:4 e:5 . . . .",
		functional: true,
		words: map[string][]uint64{
			"acde":      {13},
			"abbbbbcde": {23},
		},
	},
	{
		expr:       "a:1 b:2 * c:3 d:4 e:5 . . . . g:6 |",
		functional: true,
		words: map[string][]uint64{
			"g":    {6},
			"acde": {13},
			"gg":   nil,
		},
	},
	{
		expr:       "abcde:15",
		functional: true,
		words: map[string][]uint64{
			"abcde": {15},
			"abcd":  nil,
			"a":     nil,
		},
	},
	{
		expr:       "abcde:15 +",
		functional: true,
		words: map[string][]uint64{
			"abcdeabcde": {30},
			"abcdea":     nil,
		},
	},
	{
		expr:       "a:5 :3 .",
		functional: true,
		words: map[string][]uint64{
			"a": {8},
			"":  nil,
		},
	},
	{
		expr:       ":3 a:5 . b:1 .",
		functional: true,
		words: map[string][]uint64{
			"ab": {9},
			"a":  nil,
		},
	},
	{
		expr:       "a:5 :0 | *",
		functional: true,
		words: map[string][]uint64{
			"":   {0},
			"aa": {10},
		},
	},
	{
		expr:       ":3 :4 |",
		functional: false,
		words: map[string][]uint64{
			"":  {3, 4},
			"a": nil,
		},
	},
	{
		expr:       "abc:1 def:10 abc:3 . . abcdefabc:0 |",
		functional: false,
		words: map[string][]uint64{
			"abcdefabc": {0, 14},
			"abc":       nil,
		},
	},
}
