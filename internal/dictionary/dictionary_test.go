package dictionary_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/ulikunitz/xz"

	"github.com/angeloszaimis/cantonese-split/internal/dictionary"
	"github.com/angeloszaimis/cantonese-split/internal/jyutping"
)

const sampleTSV = `# sample
你好	nei5 hou2
你	nei5
好	hou2

好	hou3
銀行	ngan4hong4
`

var _ = Describe("Builder", func() {
	var b *dictionary.Builder

	BeforeEach(func() {
		b = dictionary.NewBuilder()
	})

	It("normalizes readings to space-separated syllables", func() {
		added, err := b.Add("銀行", "NGAN4HONG4")
		Expect(err).NotTo(HaveOccurred())
		Expect(added).To(BeTrue())

		d := b.Build("test")
		jp, ok := d.Lookup("銀行")
		Expect(ok).To(BeTrue())
		Expect(jp).To(Equal("ngan4 hong4"))
		Expect(d.MaxWordLen()).To(Equal(2))
	})

	It("keeps the first reading of a headword", func() {
		Expect(b.Add("好", "hou2")).To(BeTrue())
		Expect(b.Add("好", "hou3")).To(BeFalse())

		jp, _ := b.Build("test").Lookup("好")
		Expect(jp).To(Equal("hou2"))
	})

	It("rejects a syllable count that does not match the headword", func() {
		_, err := b.Add("你好", "nei5")
		Expect(err).To(MatchError(dictionary.ErrSyllableMismatch))
	})

	It("rejects malformed jyutping", func() {
		_, err := b.Add("你", "nei")
		Expect(err).To(MatchError(jyutping.ErrInvalid))
	})

	It("rejects empty headwords", func() {
		_, err := b.Add("  ", "nei5")
		Expect(err).To(MatchError(dictionary.ErrEmptyHeadword))
	})
})

var _ = Describe("ReadTSV", func() {
	It("skips comments and blank lines", func() {
		d, err := dictionary.ReadTSV(strings.NewReader(sampleTSV), "sample")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Len()).To(Equal(4))
		Expect(d.Source()).To(Equal("sample"))
	})

	It("reports the line of a bad entry", func() {
		_, err := dictionary.ReadTSV(strings.NewReader("你\tnei5\n好 hou2\n"), "bad.tsv")
		Expect(err).To(MatchError(ContainSubstring("bad.tsv:2")))
	})

	It("produces the same fingerprint regardless of line order", func() {
		a, err := dictionary.ReadTSV(strings.NewReader("你\tnei5\n好\thou2\n"), "a")
		Expect(err).NotTo(HaveOccurred())
		b, err := dictionary.ReadTSV(strings.NewReader("好\thou2\n你\tnei5\n"), "b")
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Fingerprint()).To(HaveLen(64))
		Expect(a.Fingerprint()).To(Equal(b.Fingerprint()))
	})

	It("round-trips through WriteTSV", func() {
		d, err := dictionary.ReadTSV(strings.NewReader(sampleTSV), "sample")
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(dictionary.WriteTSV(&buf, d)).To(Succeed())

		again, err := dictionary.ReadTSV(&buf, "again")
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Fingerprint()).To(Equal(d.Fingerprint()))
	})
})

var _ = Describe("Embedded", func() {
	It("loads the built-in lexicon", func() {
		d, err := dictionary.Embedded()
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Source()).To(Equal(dictionary.SourceEmbedded))
		Expect(d.Len()).To(BeNumerically(">", 3000))
		Expect(d.MaxWordLen()).To(Equal(3))

		jp, ok := d.Lookup("不")
		Expect(ok).To(BeTrue())
		Expect(jp).To(Equal("bat1"))

		jp, ok = d.Lookup("你好")
		Expect(ok).To(BeTrue())
		Expect(jp).To(Equal("nei5 hou2"))
	})

	It("carries simplified forms alongside traditional ones", func() {
		d, err := dictionary.Embedded()
		Expect(err).NotTo(HaveOccurred())

		for _, pair := range [][2]string{{"廳", "厅"}, {"園", "园"}, {"氣", "气"}, {"餐廳", "餐厅"}} {
			trad, ok := d.Lookup(pair[0])
			Expect(ok).To(BeTrue(), pair[0])
			simp, ok := d.Lookup(pair[1])
			Expect(ok).To(BeTrue(), pair[1])
			Expect(simp).To(Equal(trad))
		}
	})
})

const sampleRime = `# Rime dictionary
---
name: jyut6ping3.chars
version: "2024.01.01"
sort: by_weight
...

行	hang4	3%
行	haang4	90%
行	hong4	7%
我	ngo5
你	nei5
你	nei2	0%
銀行	ngan4 hong4	1200
ABC	abc
錯	cok3 cok3
`

var _ = Describe("ReadRime", func() {
	It("keeps the highest-weighted reading of each headword", func() {
		d, err := dictionary.ReadRime(strings.NewReader(sampleRime), "chars.dict.yaml")
		Expect(err).NotTo(HaveOccurred())

		jp, _ := d.Lookup("行")
		Expect(jp).To(Equal("haang4"))
		jp, _ = d.Lookup("你")
		Expect(jp).To(Equal("nei5"))
		jp, _ = d.Lookup("銀行")
		Expect(jp).To(Equal("ngan4 hong4"))
	})

	It("skips rows that are not readings of the headword", func() {
		d, err := dictionary.ReadRime(strings.NewReader(sampleRime), "chars.dict.yaml")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Len()).To(Equal(4))

		_, ok := d.Lookup("ABC")
		Expect(ok).To(BeFalse())
		_, ok = d.Lookup("錯")
		Expect(ok).To(BeFalse())
	})

	It("honours a columns list in the header", func() {
		const table = "---\nname: t\ncolumns:\n  - code\n  - text\n...\nngo5\t我\n"
		d, err := dictionary.ReadRime(strings.NewReader(table), "t.dict.yaml")
		Expect(err).NotTo(HaveOccurred())

		jp, ok := d.Lookup("我")
		Expect(ok).To(BeTrue())
		Expect(jp).To(Equal("ngo5"))
	})
})

var _ = Describe("Open", func() {
	var (
		ctx     context.Context
		tempDir string
		sample  *dictionary.Dictionary
	)

	BeforeEach(func() {
		ctx = context.Background()
		tempDir = GinkgoT().TempDir()

		var err error
		sample, err = dictionary.ReadTSV(strings.NewReader(sampleTSV), "sample")
		Expect(err).NotTo(HaveOccurred())
	})

	It("defaults to the embedded lexicon", func() {
		d, err := dictionary.Open(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Source()).To(Equal(dictionary.SourceEmbedded))
	})

	It("reads plain TSV files", func() {
		path := filepath.Join(tempDir, "dict.tsv")
		Expect(os.WriteFile(path, []byte(sampleTSV), 0644)).To(Succeed())

		d, err := dictionary.Open(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Fingerprint()).To(Equal(sample.Fingerprint()))
	})

	It("reads xz-compressed TSV files", func() {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Write([]byte(sampleTSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		path := filepath.Join(tempDir, "dict.tsv.xz")
		Expect(os.WriteFile(path, buf.Bytes(), 0644)).To(Succeed())

		d, err := dictionary.Open(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Fingerprint()).To(Equal(sample.Fingerprint()))
	})

	It("reads Rime tables, plain or xz-compressed", func() {
		plain := filepath.Join(tempDir, "jyut6ping3.chars.dict.yaml")
		Expect(os.WriteFile(plain, []byte(sampleRime), 0644)).To(Succeed())

		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		Expect(err).NotTo(HaveOccurred())
		_, err = w.Write([]byte(sampleRime))
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Close()).To(Succeed())
		compressed := filepath.Join(tempDir, "jyut6ping3.chars.dict.yaml.xz")
		Expect(os.WriteFile(compressed, buf.Bytes(), 0644)).To(Succeed())

		a, err := dictionary.Open(ctx, plain)
		Expect(err).NotTo(HaveOccurred())
		b, err := dictionary.Open(ctx, compressed)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Len()).To(Equal(4))
		Expect(b.Fingerprint()).To(Equal(a.Fingerprint()))
	})

	It("round-trips through SQLite", func() {
		path := filepath.Join(tempDir, "dict.db")
		Expect(dictionary.WriteSQLite(ctx, path, sample)).To(Succeed())

		d, err := dictionary.Open(ctx, path)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Len()).To(Equal(sample.Len()))
		Expect(d.MaxWordLen()).To(Equal(2))
		Expect(d.Fingerprint()).To(Equal(sample.Fingerprint()))
	})

	It("fails for a missing file", func() {
		_, err := dictionary.Open(ctx, filepath.Join(tempDir, "missing.tsv"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown extensions", func() {
		_, err := dictionary.Open(ctx, "dict.json")
		Expect(err).To(MatchError(dictionary.ErrUnsupportedSource))
	})
})
