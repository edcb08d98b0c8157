package inline

import (
	"fmt"
	"io"
	"os"

	"github.com/filmscout/filmscout/history"
	"github.com/filmscout/filmscout/log"
	"github.com/filmscout/filmscout/source"
)

// Run searches the query and writes the picked title with its episodes.
// Without a picker only the result listing is written.
func Run(options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if p, ok := options.Source.(source.Preparer); ok && options.ResultPicker.IsPresent() {
		if err := p.Prepare(); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	results, err := options.Source.Search(options.Query, options.Filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	picker, ok := options.ResultPicker.Get()
	if !ok {
		titles := make([]*Title, len(results))
		for i, r := range results {
			titles[i] = &Title{SearchResult: r}
		}
		return write(options.Out, titles, options)
	}

	choice := picker(results)
	if choice == nil {
		return write(options.Out, nil, options)
	}

	title, err := prepareTitle(choice, options)
	if err != nil {
		return err
	}

	return write(options.Out, []*Title{title}, options)
}

func prepareTitle(result *source.SearchResult, options *Options) (*Title, error) {
	episodes, err := options.Source.EpisodesOf(result)
	if err != nil {
		return nil, err
	}

	if options.WriteHistory {
		if err := history.Save(result, episodes); err != nil {
			log.Warnf("failed to record %s: %v", result.Title, err)
		}
	}

	if filter, ok := options.EpisodesFilter.Get(); ok {
		if episodes, err = filter(episodes); err != nil {
			return nil, err
		}
	}

	if options.Links {
		for _, ep := range episodes {
			links, err := options.Source.LinksOf(ep)
			if err != nil {
				log.Warnf("failed to fetch links for %s: %v", ep.Label, err)
				continue
			}
			ep.Links = links
		}
	}

	return &Title{SearchResult: result, Episodes: episodes}, nil
}

func write(out io.Writer, titles []*Title, options *Options) error {
	if options.Json {
		return writeJson(out, titles, options)
	}

	for _, title := range titles {
		if len(title.Episodes) == 0 {
			fmt.Fprintf(out, "%s\t%s\n", title, title.URL)
			continue
		}

		for _, ep := range title.Episodes {
			if options.Links && len(ep.Links) > 0 {
				for _, link := range ep.Links {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", ep.Label, link.Provider, link.Version, link.Quality, link.URL)
				}
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", ep.Label, ep.URL)
		}
	}

	return nil
}

func writeJson(out io.Writer, titles []*Title, options *Options) error {
	data, err := asJson(titles, options)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
