package index

// Posting records how much of a document a term accounts for.
type Posting struct {
	DocID    int
	TermFreq float64
}

// PostingList is ordered by DocID.
type PostingList []Posting
