package beacon

//byScore orders summary results for presentation: descending score,
//then descending connection count, then ascending source and
//destination for a deterministic ordering
type byScore []Result

func (s byScore) Len() int      { return len(s) }
func (s byScore) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byScore) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}
	if s[i].Connections != s[j].Connections {
		return s[i].Connections > s[j].Connections
	}
	if s[i].Src != s[j].Src {
		return s[i].Src < s[j].Src
	}
	if s[i].Dst != s[j].Dst {
		return s[i].Dst < s[j].Dst
	}
	return s[i].DstPort < s[j].DstPort
}
