package caption

// VibeInfo 风格展示信息
type VibeInfo struct {
	ID       Vibe   `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Gradient string `json:"gradient"`
}

var vibeInfos = map[Vibe]VibeInfo{
	VibeHappy:       {ID: VibeHappy, Name: "Happy", Emoji: "😊", Gradient: "from-yellow-400 to-pink-400"},
	VibeSad:         {ID: VibeSad, Name: "Sad", Emoji: "😢", Gradient: "from-blue-400 to-gray-600"},
	VibeAdventurous: {ID: VibeAdventurous, Name: "Adventurous", Emoji: "🏔️", Gradient: "from-green-400 to-blue-500"},
	VibeRomantic:    {ID: VibeRomantic, Name: "Romantic", Emoji: "💕", Gradient: "from-pink-400 to-red-400"},
	VibeMysterious:  {ID: VibeMysterious, Name: "Mysterious", Emoji: "🌙", Gradient: "from-purple-400 to-gray-800"},
	VibeEnergetic:   {ID: VibeEnergetic, Name: "Energetic", Emoji: "⚡", Gradient: "from-orange-400 to-red-500"},
}

// Info 返回风格的展示信息，未知风格回退到默认风格
func Info(v Vibe) VibeInfo {
	if info, ok := vibeInfos[v]; ok {
		return info
	}
	return vibeInfos[DefaultVibe]
}

// Catalog 按展示顺序返回全部风格信息
func Catalog() []VibeInfo {
	list := make([]VibeInfo, 0, len(allVibes))
	for _, v := range allVibes {
		list = append(list, vibeInfos[v])
	}
	return list
}
