package model

import "fmt"

// Manifest pins the tokenizer asset files of a Hugging Face repository.
type Manifest struct {
	Repo  string      `json:"repo"`
	Files []AssetFile `json:"files"`
}

// AssetFile identifies one downloadable file at a pinned revision. SHA256
// may be empty: vocab.json and merges.txt are small non-LFS files, so the
// hub serves no checksum metadata for them; the first verified download
// records the observed digest into the local lock manifest instead.
type AssetFile struct {
	Filename string `json:"filename"`
	Revision string `json:"revision"`
	SHA256   string `json:"sha256"`
}

// DefaultRepo is the canonical GPT-2 tokenizer asset repository.
const DefaultRepo = "openai-community/gpt2"

// PinnedManifest returns the asset manifest for a supported repository.
func PinnedManifest(repo string) (Manifest, error) {
	switch repo {
	case DefaultRepo, "gpt2":
		return Manifest{
			Repo: DefaultRepo,
			Files: []AssetFile{
				{
					Filename: "vocab.json",
					Revision: "607a30d783dfa663caf39e06633721c8d4cfcd7e",
					SHA256:   "",
				},
				{
					Filename: "merges.txt",
					Revision: "607a30d783dfa663caf39e06633721c8d4cfcd7e",
					SHA256:   "",
				},
			},
		}, nil
	default:
		return Manifest{}, fmt.Errorf("no pinned manifest for repo %q", repo)
	}
}
